package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultLimit        = 100
	MaxLimit            = 1000
	MaxBirthdayWindow   = 366
	DefaultBirthdayDays = 7
)

// ContactService performs contact operations on behalf of one owner. Every
// method takes the owner id resolved by UserService.ResolveIdentity.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ContactService {
	return &ContactService{db: db, repomanager: m, logger: logger.With("module", "contacts"), now: time.Now}
}

func (s *ContactService) contacts() contacts.Repository {
	return s.repomanager.Contacts(s.db)
}

// NormalizeName trims a name and converts it to title case.
func NormalizeName(name string) string {
	// cases.Caser keeps state and is not safe for concurrent use.
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}

// NormalizeContactEmail trims and lower-cases a contact email.
func NormalizeContactEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalize applies the write-time normalization shared by create and update,
// so lookups that normalize their input find what was stored.
func normalize(data models.ContactData) (models.ContactData, error) {
	data.FirstName = NormalizeName(data.FirstName)
	data.LastName = NormalizeName(data.LastName)
	if data.FirstName == "" || data.LastName == "" {
		return data, fmt.Errorf("%w: first and last name are required", common.ErrorValidation)
	}
	if data.Email != nil {
		e := NormalizeContactEmail(*data.Email)
		if e == "" {
			data.Email = nil
		} else {
			data.Email = &e
		}
	}
	if data.Phone != nil {
		p := strings.TrimSpace(*data.Phone)
		if p == "" {
			data.Phone = nil
		} else {
			data.Phone = &p
		}
	}
	if data.Birthday != nil {
		b := time.Date(data.Birthday.Year(), data.Birthday.Month(), data.Birthday.Day(), 0, 0, 0, 0, time.UTC)
		data.Birthday = &b
	}
	return data, nil
}

func wrapRepoError(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return internalError(op, err)
}

// List returns a page of the owner's contacts. An empty page is not an error.
func (s *ContactService) List(ctx context.Context, owner int64, skip, limit int) ([]*models.Contact, error) {
	if skip < 0 || limit < 1 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: skip must be >= 0 and limit within 1..%d", common.ErrorValidation, MaxLimit)
	}
	result, err := s.contacts().List(ctx, owner, skip, limit)
	if err != nil {
		return nil, internalError("list contacts", err)
	}
	return result, nil
}

// Get returns the owner's contact with id, or common.ErrorNotFound.
func (s *ContactService) Get(ctx context.Context, id, owner int64) (*models.Contact, error) {
	c, err := s.contacts().Get(ctx, id, owner)
	if err != nil {
		return nil, wrapRepoError("get contact", err)
	}
	return c, nil
}

// FindByFirstName returns at most one contact; no match is common.ErrorNotFound.
func (s *ContactService) FindByFirstName(ctx context.Context, name string, owner int64) (*models.Contact, error) {
	c, err := s.contacts().FindByFirstName(ctx, NormalizeName(name), owner)
	if err != nil {
		return nil, wrapRepoError("find by first name", err)
	}
	return c, nil
}

func (s *ContactService) FindByLastName(ctx context.Context, name string, owner int64) (*models.Contact, error) {
	c, err := s.contacts().FindByLastName(ctx, NormalizeName(name), owner)
	if err != nil {
		return nil, wrapRepoError("find by last name", err)
	}
	return c, nil
}

func (s *ContactService) FindByEmail(ctx context.Context, email string, owner int64) (*models.Contact, error) {
	c, err := s.contacts().FindByEmail(ctx, NormalizeContactEmail(email), owner)
	if err != nil {
		return nil, wrapRepoError("find by email", err)
	}
	return c, nil
}

// UpcomingBirthdays returns the owner's contacts whose next birthday falls
// within [today, today+days], soonest first. The window may cross New Year;
// Feb 29 birthdays are observed on Feb 28 in common years.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, owner int64, days int) ([]*models.Contact, error) {
	if days < 0 || days > MaxBirthdayWindow {
		return nil, fmt.Errorf("%w: interval must be within 0..%d days", common.ErrorValidation, MaxBirthdayWindow)
	}

	all, err := s.contacts().ListWithBirthday(ctx, owner)
	if err != nil {
		return nil, internalError("list birthdays", err)
	}

	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	last := today.AddDate(0, 0, days)

	type upcoming struct {
		contact *models.Contact
		next    time.Time
	}
	var found []upcoming
	for _, c := range all {
		if c.Birthday == nil {
			continue
		}
		next := NextBirthday(*c.Birthday, today)
		if !next.After(last) {
			found = append(found, upcoming{c, next})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].next.Before(found[j].next) })

	result := make([]*models.Contact, 0, len(found))
	for _, u := range found {
		result = append(result, u.contact)
	}
	return result, nil
}

// NextBirthday returns the first anniversary of birthday on or after today.
func NextBirthday(birthday, today time.Time) time.Time {
	next := anniversary(birthday, today.Year())
	if next.Before(today) {
		next = anniversary(birthday, today.Year()+1)
	}
	return next
}

func anniversary(birthday time.Time, year int) time.Time {
	month, day := birthday.Month(), birthday.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Create stores a new contact for owner.
func (s *ContactService) Create(ctx context.Context, owner int64, data models.ContactData) (*models.Contact, error) {
	data, err := normalize(data)
	if err != nil {
		return nil, err
	}

	c, err := s.contacts().Create(ctx, &models.Contact{UserID: owner, ContactData: data})
	if err != nil {
		return nil, wrapRepoError("create contact", err)
	}

	s.logger.Info(ctx, "contact created", "owner_id", owner, "contact_id", c.ID)
	return c, nil
}

// Update replaces every mutable field of the owner's contact with id.
func (s *ContactService) Update(ctx context.Context, id, owner int64, data models.ContactData) (*models.Contact, error) {
	data, err := normalize(data)
	if err != nil {
		return nil, err
	}

	c, err := s.contacts().Update(ctx, id, owner, data)
	if err != nil {
		return nil, wrapRepoError("update contact", err)
	}

	s.logger.Info(ctx, "contact updated", "owner_id", owner, "contact_id", id)
	return c, nil
}

// Delete removes the owner's contact with id and returns it.
func (s *ContactService) Delete(ctx context.Context, id, owner int64) (*models.Contact, error) {
	c, err := s.contacts().Delete(ctx, id, owner)
	if err != nil {
		return nil, wrapRepoError("delete contact", err)
	}

	s.logger.Info(ctx, "contact deleted", "owner_id", owner, "contact_id", id)
	return c, nil
}
