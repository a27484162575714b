// Package services contains server-side business logic: UserService turns
// credentials into verified identities and tokens, and ContactService
// performs owner-scoped contact queries and mutations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/background"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/users"
)

// ConfirmationPath is the route, relative to the public base URL, that
// consumes email confirmation tokens.
const ConfirmationPath = "/api/v1/auth/confirmed_email/"

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Mailer delivers confirmation links.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, username, link string) error
}

// AvatarResolver finds a default avatar URL for a new account.
type AvatarResolver interface {
	DefaultAvatar(ctx context.Context, email string) (string, error)
}

// AvatarStorage stores an uploaded image and returns its public URL.
type AvatarStorage interface {
	Upload(ctx context.Context, userID int64, contentType string, image []byte) (string, error)
}

// Collaborators are the external services UserService hands side effects to.
// Avatars and Storage may be nil; the related features are then skipped.
type Collaborators struct {
	Mailer  Mailer
	Avatars AvatarResolver
	Storage AvatarStorage
	Tasks   *background.Runner
}

// UserService provides authentication-related operations:
// registration, login, token refresh, identity resolution, email
// confirmation, logout and avatar updates.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	baseURL     string
	collab      Collaborators
	logger      logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger, collab Collaborators) *UserService {
	if collab.Tasks == nil {
		collab.Tasks = background.NewRunner(logger, 0)
	}
	return &UserService{
		db:          db,
		repomanager: m,
		issuer: auth.NewIssuer(cfg.SecretKey,
			cfg.AccessTokenValidityDuration,
			cfg.RefreshTokenValidityDuration,
			cfg.EmailTokenValidityDuration),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		collab:  collab,
		logger:  logger.With("module", "users"),
	}
}

func (s *UserService) users() users.Repository {
	return s.repomanager.Users(s.db)
}

// NormalizeEmail trims and lower-cases an account email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrorInternal, op, err)
}

// Register creates an unconfirmed account. The default avatar lookup and the
// confirmation email run in the background and never fail registration.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	username = strings.TrimSpace(username)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrorValidation)
	}

	repo := s.users()

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrEmailTaken
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, internalError("get user", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, internalError("hash password", err)
	}

	user, err := repo.Create(ctx, &models.User{UserName: username, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, internalError("create user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	s.scheduleDefaultAvatar(ctx, user.ID, user.Email)
	s.scheduleConfirmation(ctx, user.Email, user.UserName)

	return user, nil
}

func (s *UserService) scheduleDefaultAvatar(ctx context.Context, userID int64, email string) {
	if s.collab.Avatars == nil {
		return
	}
	s.collab.Tasks.Go(ctx, "default-avatar", func(ctx context.Context) error {
		url, err := s.collab.Avatars.DefaultAvatar(ctx, email)
		if err != nil {
			return err
		}
		_, err = s.users().UpdateAvatar(ctx, userID, url)
		return err
	})
}

func (s *UserService) scheduleConfirmation(ctx context.Context, email, username string) {
	if s.collab.Mailer == nil {
		return
	}
	s.collab.Tasks.Go(ctx, "confirmation-email", func(ctx context.Context) error {
		token, err := s.issuer.EmailToken(email)
		if err != nil {
			return err
		}
		return s.collab.Mailer.SendConfirmation(ctx, email, username, s.baseURL+ConfirmationPath+token)
	})
}

// Login verifies credentials and returns a fresh token pair. The stored
// refresh token is overwritten, so an older session can no longer refresh.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	repo := s.users()

	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.reject(ctx, "login", common.ErrInvalidEmail)
		}
		return nil, internalError("get user", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrInvalidPassword) {
			return nil, s.reject(ctx, "login", err, "user_id", user.ID)
		}
		return nil, internalError("check password", err)
	}

	if !user.Confirmed {
		return nil, s.reject(ctx, "login", common.ErrEmailNotConfirmed, "user_id", user.ID)
	}

	pair, err := s.generateTokenPair(user.Email)
	if err != nil {
		return nil, err
	}

	if err := repo.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, internalError("store refresh token", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return pair, nil
}

// RefreshToken exchanges the stored refresh token for a new pair. A token
// that verifies but is not the stored one revokes the stored one as well.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	email, err := s.issuer.Parse(refreshToken, auth.ScopeRefresh)
	if err != nil {
		return nil, s.reject(ctx, "refresh", err)
	}

	repo := s.users()

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.reject(ctx, "refresh", common.ErrInvalidToken)
		}
		return nil, internalError("get user", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		if err := repo.SetRefreshToken(ctx, user.ID, nil); err != nil {
			s.logger.Error(ctx, "failed to revoke refresh token", "user_id", user.ID, "error", err.Error())
		}
		return nil, s.reject(ctx, "refresh", common.ErrRefreshTokenMismatch, "user_id", user.ID)
	}

	pair, err := s.generateTokenPair(user.Email)
	if err != nil {
		return nil, err
	}

	if err := repo.ReplaceRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.reject(ctx, "refresh", common.ErrRefreshTokenMismatch, "user_id", user.ID)
		}
		return nil, internalError("store refresh token", err)
	}

	return pair, nil
}

// ResolveIdentity returns the owner of a valid access token.
func (s *UserService) ResolveIdentity(ctx context.Context, accessToken string) (*models.User, error) {
	email, err := s.issuer.Parse(accessToken, auth.ScopeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: token subject no longer exists", common.ErrorNotFound)
		}
		return nil, internalError("get user", err)
	}
	return user, nil
}

// ConfirmEmail marks the account named by an email token as confirmed.
// Confirming twice is not an error.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) error {
	email, err := s.issuer.Parse(token, auth.ScopeEmail)
	if err != nil {
		return s.reject(ctx, "confirm email", err)
	}

	repo := s.users()

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return s.reject(ctx, "confirm email", common.ErrInvalidToken)
		}
		return internalError("get user", err)
	}

	if user.Confirmed {
		return nil
	}

	if err := repo.Confirm(ctx, email); err != nil {
		return internalError("confirm user", err)
	}

	s.logger.Info(ctx, "email confirmed", "user_id", user.ID)
	return nil
}

// RequestConfirmation re-sends the confirmation email. Unknown and already
// confirmed addresses are ignored without telling the caller.
func (s *UserService) RequestConfirmation(ctx context.Context, email string) error {
	user, err := s.users().GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return internalError("get user", err)
	}

	if user.Confirmed {
		return nil
	}

	s.scheduleConfirmation(ctx, user.Email, user.UserName)
	return nil
}

// Logout clears the stored refresh token. Issued access tokens stay valid
// until they expire.
func (s *UserService) Logout(ctx context.Context, user *models.User) error {
	if err := s.users().SetRefreshToken(ctx, user.ID, nil); err != nil {
		return internalError("clear refresh token", err)
	}
	s.logger.Info(ctx, "user logged out", "user_id", user.ID)
	return nil
}

// UpdateAvatar uploads image to object storage and records its URL on user.
func (s *UserService) UpdateAvatar(ctx context.Context, user *models.User, contentType string, image []byte) (*models.User, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", common.ErrorValidation)
	}
	if s.collab.Storage == nil {
		return nil, fmt.Errorf("%w: avatar storage is not configured", common.ErrorInternal)
	}

	url, err := s.collab.Storage.Upload(ctx, user.ID, contentType, image)
	if err != nil {
		return nil, internalError("upload avatar", err)
	}

	updated, err := s.users().UpdateAvatar(ctx, user.ID, url)
	if err != nil {
		return nil, internalError("update avatar", err)
	}
	return updated, nil
}

func (s *UserService) generateTokenPair(subject string) (*TokenPair, error) {
	accessToken, err := s.issuer.AccessToken(subject)
	if err != nil {
		return nil, internalError("sign access token", err)
	}

	refreshToken, err := s.issuer.RefreshToken(subject)
	if err != nil {
		return nil, internalError("sign refresh token", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// reject logs the internal reason of an authentication failure and returns it.
func (s *UserService) reject(ctx context.Context, op string, reason error, args ...any) error {
	s.logger.Warn(ctx, "authentication rejected", append([]any{"op", op, "reason", reason.Error()}, args...)...)
	return reason
}
