// Package memory provides in-memory Credential and Contact stores that
// behave like their PostgreSQL counterparts. They back the server when it is
// started with the "memory" DSN and are used by service and boundary tests.
package memory

import (
	"sync"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Store holds the users and contacts tables. A single mutex guards both so
// that every repository call is atomic, like a single SQL statement.
type Store struct {
	mu            sync.RWMutex
	users         map[int64]*models.User
	contacts      map[int64]*models.Contact
	nextUserID    int64
	nextContactID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*models.User),
		contacts: make(map[int64]*models.Contact),
	}
}

// Users returns a Credential Store view of s.
func (s *Store) Users() *UsersRepository {
	return &UsersRepository{s: s}
}

// Contacts returns a Contact Store view of s.
func (s *Store) Contacts() *ContactsRepository {
	return &ContactsRepository{s: s}
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
