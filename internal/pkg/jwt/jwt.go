package jwt

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(userID string, email string, isAdmin bool) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	ParseRefreshToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	secretKey                  string
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                  secretKey,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID string, email string, isAdmin bool) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":  userID,
		"email":    email,
		"is_admin": isAdmin,
		"type":     "access",
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"type":    "refresh",
	})
	return tokenString, expiresAt, err
}

// ParseRefreshToken validates a refresh token's signature, expiry and type.
func (j *JWTService) ParseRefreshToken(tokenString string) (string, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	return userID, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}
