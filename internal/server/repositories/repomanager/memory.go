package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/memory"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/users"
)

// MemoryRepositoryManager vends repositories over one shared memory.Store.
// The DBTX argument is ignored.
type MemoryRepositoryManager struct {
	store *memory.Store
}

// NewMemoryRepositoryManager constructs a manager over a fresh, empty store.
func NewMemoryRepositoryManager() RepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

// RunMigrations is a no-op; the store has no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.store.Users()
}

func (m *MemoryRepositoryManager) Contacts(dbx.DBTX) contacts.Repository {
	return m.store.Contacts()
}
