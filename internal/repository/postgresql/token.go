package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kiki1226/Coachtech-kintai/internal/pkg/database"
	authservice "github.com/kiki1226/Coachtech-kintai/internal/service/auth"
)

type tokenRepositoryImpl struct {
	db *database.DB
}

func NewTokenRepository(db *database.DB) authservice.TokenRepository {
	return &tokenRepositoryImpl{db: db}
}

// hashToken hashes the token with SHA256, base64 encoded. Raw refresh tokens
// never touch the database.
func (r *tokenRepositoryImpl) hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// CreateRefreshToken implements auth.TokenRepository.
func (r *tokenRepositoryImpl) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := q.Exec(ctx, query, uuid.NewString(), userID, r.hashToken(token), time.Unix(expiresAt, 0).UTC())
	return err
}

// IsRefreshTokenRevoked implements auth.TokenRepository. An unknown token
// counts as revoked.
func (r *tokenRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`

	var revokedAt *time.Time
	var expiresAt time.Time
	if err := q.QueryRow(ctx, query, r.hashToken(token)).Scan(&revokedAt, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, err
	}

	if revokedAt != nil || !expiresAt.After(time.Now()) {
		return true, nil
	}
	return false, nil
}

// RevokeRefreshToken implements auth.TokenRepository.
func (r *tokenRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`
	_, err := q.Exec(ctx, query, r.hashToken(token))
	return err
}
