package contacts

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Repository is the Contact Store. Every method takes the owner id and
// composes it into the same query as the primary filter, so a contact owned
// by someone else cannot be told apart from a missing one: both yield
// common.ErrorNotFound.
type Repository interface {
	List(ctx context.Context, owner int64, offset, limit int) ([]*models.Contact, error)
	Get(ctx context.Context, id, owner int64) (*models.Contact, error)
	FindByFirstName(ctx context.Context, name string, owner int64) (*models.Contact, error)
	FindByLastName(ctx context.Context, name string, owner int64) (*models.Contact, error)
	FindByEmail(ctx context.Context, email string, owner int64) (*models.Contact, error)
	// ListWithBirthday returns the owner's contacts that have a birthday set.
	ListWithBirthday(ctx context.Context, owner int64) ([]*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	Update(ctx context.Context, id, owner int64, data models.ContactData) (*models.Contact, error)
	Delete(ctx context.Context, id, owner int64) (*models.Contact, error)
}
