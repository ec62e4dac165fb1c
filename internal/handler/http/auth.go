package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/auth"
	"github.com/kiki1226/Coachtech-kintai/internal/handler/http/response"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/jwt"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.AuthService
	jwtService  jwt.Service
}

func NewAuthHandler(authService auth.AuthService, jwtService jwt.Service) AuthHandler {
	return &authHandlerImpl{
		authService: authService,
		jwtService:  jwtService,
	}
}

func (h *authHandlerImpl) setRefreshCookie(w http.ResponseWriter, token string, expiresAt int64) {
	http.SetCookie(w, h.jwtService.RefreshTokenCookie(token, expiresAt))
}

func (h *authHandlerImpl) clearRefreshCookie(w http.ResponseWriter) {
	cookie := h.jwtService.RefreshTokenCookie("", 0)
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

// Register implements AuthHandler.
func (h *authHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.setRefreshCookie(w, resp.RefreshToken, resp.RefreshExpiresAt)
	response.Created(w, "Registration successful", resp)
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.setRefreshCookie(w, resp.RefreshToken, resp.RefreshExpiresAt)
	response.Success(w, resp)
}

// RefreshToken implements AuthHandler. The refresh token travels in an
// HttpOnly cookie, never in the JSON body.
func (h *authHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken, pair.RefreshExpiresAt)
	response.Success(w, pair)
}

// Logout implements AuthHandler.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			response.HandleError(w, err)
			return
		}
	}

	h.clearRefreshCookie(w)
	response.SuccessWithMessage(w, "Logged out", nil)
}
