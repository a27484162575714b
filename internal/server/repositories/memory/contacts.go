package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// ContactsRepository implements contacts.Repository over a Store.
type ContactsRepository struct {
	s *Store
}

func cloneContact(c *models.Contact) *models.Contact {
	n := *c
	n.ContactData = cloneData(c.ContactData)
	return &n
}

func cloneData(d models.ContactData) models.ContactData {
	d.Email = cloneString(d.Email)
	d.Phone = cloneString(d.Phone)
	if d.Birthday != nil {
		b := *d.Birthday
		d.Birthday = &b
	}
	return d
}

// owned returns the owner's contacts ordered by id. Callers hold the lock.
func (r *ContactsRepository) owned(owner int64, keep func(*models.Contact) bool) []*models.Contact {
	result := make([]*models.Contact, 0)
	for _, c := range r.s.contacts {
		if c.UserID == owner && (keep == nil || keep(c)) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *ContactsRepository) List(_ context.Context, owner int64, offset, limit int) ([]*models.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.owned(owner, nil)
	result := make([]*models.Contact, 0)
	for i := offset; i < len(all) && len(result) < limit; i++ {
		result = append(result, cloneContact(all[i]))
	}
	return result, nil
}

func (r *ContactsRepository) Get(_ context.Context, id, owner int64) (*models.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != owner {
		return nil, common.ErrorNotFound
	}
	return cloneContact(c), nil
}

func (r *ContactsRepository) first(owner int64, keep func(*models.Contact) bool) (*models.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.owned(owner, keep)
	if len(found) == 0 {
		return nil, common.ErrorNotFound
	}
	return cloneContact(found[0]), nil
}

func (r *ContactsRepository) FindByFirstName(_ context.Context, name string, owner int64) (*models.Contact, error) {
	return r.first(owner, func(c *models.Contact) bool { return c.FirstName == name })
}

func (r *ContactsRepository) FindByLastName(_ context.Context, name string, owner int64) (*models.Contact, error) {
	return r.first(owner, func(c *models.Contact) bool { return c.LastName == name })
}

func (r *ContactsRepository) FindByEmail(_ context.Context, email string, owner int64) (*models.Contact, error) {
	return r.first(owner, func(c *models.Contact) bool { return c.Email != nil && *c.Email == email })
}

func (r *ContactsRepository) ListWithBirthday(_ context.Context, owner int64) ([]*models.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.owned(owner, func(c *models.Contact) bool { return c.Birthday != nil })
	result := make([]*models.Contact, 0, len(found))
	for _, c := range found {
		result = append(result, cloneContact(c))
	}
	return result, nil
}

func (r *ContactsRepository) Create(_ context.Context, contact *models.Contact) (*models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[contact.UserID]; !ok {
		return nil, fmt.Errorf("%w: owner does not exist", common.ErrorNotFound)
	}

	r.s.nextContactID++
	contact.ID = r.s.nextContactID
	contact.ContactData = cloneData(contact.ContactData)
	contact.Birthday = dateOnly(contact.Birthday)
	r.s.contacts[contact.ID] = cloneContact(contact)
	return contact, nil
}

func (r *ContactsRepository) Update(_ context.Context, id, owner int64, data models.ContactData) (*models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != owner {
		return nil, common.ErrorNotFound
	}
	c.ContactData = cloneData(data)
	c.Birthday = dateOnly(c.Birthday)
	return cloneContact(c), nil
}

func (r *ContactsRepository) Delete(_ context.Context, id, owner int64) (*models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != owner {
		return nil, common.ErrorNotFound
	}
	delete(r.s.contacts, id)
	return c, nil
}

// dateOnly drops the time of day, as a DATE column does.
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
