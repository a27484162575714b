// Package contacts provides the PostgreSQL-backed Contact Store.
package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

const contactColumns = `id, first_name, last_name, email, phone, birthday, user_id`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns one page of the owner's contacts ordered by id.
func (r *PostgresRepository) List(ctx context.Context, owner int64, offset, limit int) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3
		`
	return r.selectMany(ctx, query, owner, offset, limit)
}

func (r *PostgresRepository) Get(ctx context.Context, id, owner int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE id = $1 AND user_id = $2
		`
	return scanContact(r.db.QueryRowContext(ctx, query, id, owner))
}

func (r *PostgresRepository) FindByFirstName(ctx context.Context, name string, owner int64) (*models.Contact, error) {
	return r.findBy(ctx, "first_name", name, owner)
}

func (r *PostgresRepository) FindByLastName(ctx context.Context, name string, owner int64) (*models.Contact, error) {
	return r.findBy(ctx, "last_name", name, owner)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string, owner int64) (*models.Contact, error) {
	return r.findBy(ctx, "email", email, owner)
}

// findBy matches column exactly; column is always one of the fixed names above.
func (r *PostgresRepository) findBy(ctx context.Context, column, value string, owner int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE ` + column + ` = $1 AND user_id = $2
		ORDER BY id
		LIMIT 1
		`
	return scanContact(r.db.QueryRowContext(ctx, query, value, owner))
}

func (r *PostgresRepository) ListWithBirthday(ctx context.Context, owner int64) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = $1 AND birthday IS NOT NULL
		ORDER BY id
		`
	return r.selectMany(ctx, query, owner)
}

// Create inserts contact and fills in the generated id.
func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query :=
		`INSERT INTO contacts (first_name, last_name, email, phone, birthday, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `
	err := r.db.QueryRowContext(ctx, query,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.Birthday, contact.UserID).Scan(&contact.ID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: owner does not exist", common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return contact, nil
}

// Update replaces all mutable fields of the contact matching both id and owner.
func (r *PostgresRepository) Update(ctx context.Context, id, owner int64, data models.ContactData) (*models.Contact, error) {
	query :=
		`UPDATE contacts
		 SET first_name = $3, last_name = $4, email = $5, phone = $6, birthday = $7
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + contactColumns
	return scanContact(r.db.QueryRowContext(ctx, query,
		id, owner, data.FirstName, data.LastName, data.Email, data.Phone, data.Birthday))
}

// Delete removes the contact matching both id and owner and returns the removed row.
func (r *PostgresRepository) Delete(ctx context.Context, id, owner int64) (*models.Contact, error) {
	query :=
		`DELETE FROM contacts
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + contactColumns
	return scanContact(r.db.QueryRowContext(ctx, query, id, owner))
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Contact, 0)
	for rows.Next() {
		item, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Birthday, &c.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
