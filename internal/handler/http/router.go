package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/kiki1226/Coachtech-kintai/internal/handler/http/middleware"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/jwt"
)

func NewRouter(
	env string,
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	correctionHandler CorrectionHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "coachtech-kintai"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Post("/break-start", attendanceHandler.BreakStart)
				r.Post("/break-end", attendanceHandler.BreakEnd)
				r.Get("/today", attendanceHandler.Today)
				r.Get("/month", attendanceHandler.MyMonth)
				r.Get("/{id}", attendanceHandler.Detail)
				r.Post("/{id}/corrections", correctionHandler.Submit)
			})

			r.Get("/corrections", correctionHandler.MyRequests)

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Get("/attendance", reportHandler.DayBoard)
				r.Route("/staff/{id}/attendance", func(r chi.Router) {
					r.Get("/", reportHandler.StaffMonth)
					r.Get("/csv", reportHandler.StaffMonthCSV)
					r.Put("/{date}", reportHandler.UpdateStaffDay)
				})

				r.Route("/corrections", func(r chi.Router) {
					r.Get("/", correctionHandler.List)
					r.Post("/{id}/approve", correctionHandler.Approve)
					r.Post("/{id}/reject", correctionHandler.Reject)
				})
			})
		})
	})
	return r
}
