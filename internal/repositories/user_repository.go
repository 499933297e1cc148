package repositories

import (
	"context"
	"errors"

	"tasteofegypt/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListCustomers(ctx context.Context) ([]models.User, error)
	// Update writes the editable profile fields (name, phone).
	Update(ctx context.Context, user *models.User) error
	// ClearFirstOrderFlag marks the user as having ordered. Repeating it is a no-op.
	ClearFirstOrderFlag(ctx context.Context, id string) error
}
