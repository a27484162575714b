package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// UsersRepository implements users.Repository over a Store.
type UsersRepository struct {
	s *Store
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Avatar = cloneString(u.Avatar)
	c.RefreshToken = cloneString(u.RefreshToken)
	return &c
}

func (r *UsersRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, common.ErrEmailTaken
		}
	}

	r.s.nextUserID++
	user.ID = r.s.nextUserID
	user.CreatedAt = time.Now().UTC()
	user.Confirmed = false
	user.RefreshToken = nil
	r.s.users[user.ID] = cloneUser(user)
	return user, nil
}

func (r *UsersRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UsersRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *UsersRepository) SetRefreshToken(_ context.Context, id int64, token *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = cloneString(token)
	return nil
}

func (r *UsersRepository) ReplaceRefreshToken(_ context.Context, id int64, current, next string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != current {
		return common.ErrorNotFound
	}
	u.RefreshToken = &next
	return nil
}

func (r *UsersRepository) Confirm(_ context.Context, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			u.Confirmed = true
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *UsersRepository) UpdateAvatar(_ context.Context, id int64, url string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Avatar = &url
	return cloneUser(u), nil
}
