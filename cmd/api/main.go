package main

import (
	"fmt"
	"net/http"

	"github.com/kiki1226/Coachtech-kintai/internal/config"
	appHTTP "github.com/kiki1226/Coachtech-kintai/internal/handler/http"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/database"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/jwt"
	"github.com/kiki1226/Coachtech-kintai/internal/repository/postgresql"
	attendanceService "github.com/kiki1226/Coachtech-kintai/internal/service/attendance"
	serviceAuth "github.com/kiki1226/Coachtech-kintai/internal/service/auth"
	correctionService "github.com/kiki1226/Coachtech-kintai/internal/service/correction"
	reportService "github.com/kiki1226/Coachtech-kintai/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	loc := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	tokenRepo := postgresql.NewTokenRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authSvc := serviceAuth.NewAuthService(db, userRepo, jwtService, tokenRepo)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, loc)
	correctionSvc := correctionService.NewService(db, attendanceRepo, correctionRepo, loc)
	reportSvc := reportService.NewService(attendanceRepo, userRepo, loc)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, correctionSvc, reportSvc, loc)
	correctionHandler := appHTTP.NewCorrectionHandler(correctionSvc, loc)
	reportHandler := appHTTP.NewReportHandler(reportSvc, attendanceSvc)

	router := appHTTP.NewRouter(
		cfg.App.Env,
		jwtService,
		authHandler,
		attendanceHandler,
		correctionHandler,
		reportHandler,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
