package postgresql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/user"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/database"
)

const userColumns = `id, name, email, password_hash, is_admin, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO users (id, name, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		uuid.NewString(),
		u.Name,
		u.Email,
		u.PasswordHash,
		u.IsAdmin,
	))
	if err != nil {
		return user.User{}, err
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
