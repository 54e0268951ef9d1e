package repository

import (
	"context"
	"errors"

	"digicommerce/internal/domain/entity"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned by Create when the email unique
// constraint fires. Register maps it to the same conflict outcome as
// its pre-check, which closes the lookup-then-insert race.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository is the credential store boundary. Emails are matched
// case-insensitively; implementations must enforce email uniqueness at
// the storage layer.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetVerified(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) ([]*entity.User, error)
}
