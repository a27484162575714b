package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/contactbook/internal/client/api"
	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	f := newFakeAPI()
	a, out := newTestApp(f)
	stubInputs(t, "secret", "alice", "alice@example.org")

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, "alice", f.regUser)
	assert.Equal(t, "alice@example.org", f.regEmail)
	assert.Equal(t, "secret", f.regPass)
	assert.Contains(t, out.String(), "Registered")
}

func TestRegister_Conflict(t *testing.T) {
	f := newFakeAPI()
	f.err = common.ErrorConflict
	a, _ := newTestApp(f)
	stubInputs(t, "secret", "alice", "alice@example.org")

	err := a.Register(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestLogin(t *testing.T) {
	f := newFakeAPI()
	a, out := newTestApp(f)
	stubInputs(t, "secret", "alice@example.org")

	require.NoError(t, a.Login(context.Background()))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(alice@example.org)", a.getStatus())
	assert.Equal(t, "secret", f.loginPass)
	assert.Contains(t, out.String(), "Login successful")
}

func TestLogin_Unauthorized(t *testing.T) {
	f := newFakeAPI()
	f.err = api.ErrUnauthorized
	a, _ := newTestApp(f)
	stubInputs(t, "wrong", "alice@example.org")

	err := a.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.getStatus())
}

func TestConfirm(t *testing.T) {
	f := newFakeAPI()
	a, _ := newTestApp(f)

	assert.Error(t, a.Confirm(context.Background(), nil))
	require.NoError(t, a.Confirm(context.Background(), []string{"tok"}))
	assert.Equal(t, "tok", f.confirmed)
}

func TestLogout(t *testing.T) {
	f := newFakeAPI()
	a, _ := newTestApp(f)

	assert.Error(t, a.Logout(context.Background()), "not logged in")

	f.loggedIn = true
	a.email = "alice@example.org"
	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, f.logoutCalled)
	assert.Empty(t, a.email)
}

func TestLogout_ErrorPropagates(t *testing.T) {
	f := newFakeAPI()
	f.loggedIn = true
	f.err = errors.New("network down")
	a, _ := newTestApp(f)

	assert.Error(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
}
