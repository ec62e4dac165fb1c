package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/auth"
	"github.com/kiki1226/Coachtech-kintai/internal/handler/http/response"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// UserID pulls the authenticated user's id out of the verified claims.
// Only meaningful below AuthRequired.
func UserID(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
