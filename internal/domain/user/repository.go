package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)

	GetByID(ctx context.Context, id string) (User, error)

	GetByEmail(ctx context.Context, email string) (User, error)

	// List returns every user ordered by name, for the admin day board.
	List(ctx context.Context) ([]User, error)
}
