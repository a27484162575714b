package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/contactbook/internal/client/api"
	"github.com/dmitrijs2005/contactbook/internal/common"
)

type fakeAPI struct {
	loggedIn bool
	err      error

	regUser, regEmail, regPass string
	loginEmail, loginPass      string
	confirmed                  string
	logoutCalled               bool
	skip, limit, days          int
	created                    *api.ContactInput
	contacts                   map[int64]api.Contact
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{contacts: map[int64]api.Contact{}}
}

func (f *fakeAPI) LoggedIn() bool { return f.loggedIn }

func (f *fakeAPI) Register(_ context.Context, username, email, password string) error {
	f.regUser, f.regEmail, f.regPass = username, email, password
	return f.err
}

func (f *fakeAPI) Login(_ context.Context, email, password string) error {
	f.loginEmail, f.loginPass = email, password
	if f.err == nil {
		f.loggedIn = true
	}
	return f.err
}

func (f *fakeAPI) Logout(context.Context) error {
	f.logoutCalled = true
	f.loggedIn = false
	return f.err
}

func (f *fakeAPI) ConfirmEmail(_ context.Context, token string) error {
	f.confirmed = token
	return f.err
}

func (f *fakeAPI) Me(context.Context) (*api.User, error) {
	return &api.User{ID: 1, Email: f.loginEmail}, f.err
}

func (f *fakeAPI) ListContacts(_ context.Context, skip, limit int) ([]api.Contact, error) {
	f.skip, f.limit = skip, limit
	out := make([]api.Contact, 0, len(f.contacts))
	for _, c := range f.contacts {
		out = append(out, c)
	}
	return out, f.err
}

func (f *fakeAPI) GetContact(_ context.Context, id int64) (*api.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (f *fakeAPI) CreateContact(_ context.Context, in api.ContactInput) (*api.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &in
	id := int64(len(f.contacts) + 1)
	phone := in.Phone
	c := api.Contact{ID: id, FirstName: in.FirstName, LastName: in.LastName, Phone: &phone, Email: in.Email, Birthday: in.Birthday}
	f.contacts[id] = c
	return &c, nil
}

func (f *fakeAPI) DeleteContact(_ context.Context, id int64) (*api.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.contacts, id)
	return &c, nil
}

func (f *fakeAPI) UpcomingBirthdays(_ context.Context, days int) ([]api.Contact, error) {
	f.days = days
	return nil, f.err
}

// stubInputs answers text prompts in order and returns password for any
// password prompt.
func stubInputs(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origOT, origGP := getSimpleText, getOptionalText, getPassword

	next := func() string {
		if len(answers) == 0 {
			t.Fatalf("unexpected prompt")
		}
		a := answers[0]
		answers = answers[1:]
		return a
	}
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next(), nil }
	getOptionalText = func(_ *bufio.Reader, _ string, _ io.Writer) (*string, error) {
		if a := next(); a != "" {
			return &a, nil
		}
		return nil, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }

	t.Cleanup(func() {
		getSimpleText, getOptionalText, getPassword = origST, origOT, origGP
	})
}

func newTestApp(f *fakeAPI) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{api: f, out: &out}, &out
}
