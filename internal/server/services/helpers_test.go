package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/background"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const testBaseURL = "http://contactbook.test"

type sentMail struct {
	to, username, link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendConfirmation(_ context.Context, to, username, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, username, link})
	return nil
}

func (f *fakeMailer) last(t *testing.T) sentMail {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("no confirmation email sent")
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeAvatars struct {
	url string
	err error
}

func (f *fakeAvatars) DefaultAvatar(context.Context, string) (string, error) {
	return f.url, f.err
}

type fakeStorage struct {
	uploads int
	err     error
}

func (f *fakeStorage) Upload(_ context.Context, userID int64, _ string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	return "https://cdn.test/avatars/" + strings.Repeat("x", f.uploads), nil
}

type testEnv struct {
	cfg      *config.Config
	rm       repomanager.RepositoryManager
	runner   *background.Runner
	mailer   *fakeMailer
	avatars  *fakeAvatars
	storage  *fakeStorage
	users    *UserService
	contacts *ContactService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Cleanup(auth.SetCostForTesting(bcrypt.MinCost))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BaseURL = testBaseURL + "/"
	cfg.SecretKey = "test-secret"

	log := logging.Discard()
	env := &testEnv{
		cfg:     cfg,
		rm:      repomanager.NewMemoryRepositoryManager(),
		runner:  background.NewRunner(log, time.Second),
		mailer:  &fakeMailer{},
		avatars: &fakeAvatars{err: errors.New("gravatar offline")},
		storage: &fakeStorage{},
	}
	env.users = NewUserService(nil, env.rm, cfg, log, Collaborators{
		Mailer:  env.mailer,
		Avatars: env.avatars,
		Storage: env.storage,
		Tasks:   env.runner,
	})
	env.contacts = NewContactService(nil, env.rm, log)
	return env
}

// confirmationToken waits for background tasks and extracts the token from
// the last confirmation link.
func (e *testEnv) confirmationToken(t *testing.T) string {
	t.Helper()
	e.runner.Wait()
	link := e.mailer.last(t).link
	prefix := testBaseURL + ConfirmationPath
	if !strings.HasPrefix(link, prefix) {
		t.Fatalf("unexpected confirmation link %q", link)
	}
	return strings.TrimPrefix(link, prefix)
}

// confirmedUser registers and confirms an account and returns its tokens.
func (e *testEnv) confirmedUser(t *testing.T, email string) (int64, *TokenPair) {
	t.Helper()
	ctx := context.Background()
	u, err := e.users.Register(ctx, "user", email, "123456789")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := e.users.ConfirmEmail(ctx, e.confirmationToken(t)); err != nil {
		t.Fatalf("ConfirmEmail error: %v", err)
	}
	pair, err := e.users.Login(ctx, email, "123456789")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	return u.ID, pair
}
