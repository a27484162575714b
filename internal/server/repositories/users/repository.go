package users

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Repository is the Credential Store. Lookups that match nothing return
// common.ErrorNotFound; a duplicate email on Create returns common.ErrEmailTaken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// SetRefreshToken overwrites the stored refresh token; nil clears it.
	SetRefreshToken(ctx context.Context, id int64, token *string) error
	// ReplaceRefreshToken stores next only if current is still the stored
	// value, and returns common.ErrorNotFound otherwise.
	ReplaceRefreshToken(ctx context.Context, id int64, current, next string) error
	Confirm(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, id int64, url string) (*models.User, error)
}
