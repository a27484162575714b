package avatar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGravatar_URL(t *testing.T) {
	g := NewGravatar(GravatarBaseURL+"/", "robohash")

	u := g.URL("  DeadPool@Example.com ")
	assert.True(t, strings.HasPrefix(u, "https://www.gravatar.com/avatar/"), u)
	assert.True(t, strings.HasSuffix(u, "?d=robohash"), u)
	assert.Equal(t, g.URL("deadpool@example.com"), u)
}

func TestGravatar_DefaultAvatar_OK(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	}))
	defer srv.Close()

	g := NewGravatar(srv.URL, "identicon")
	u, err := g.DefaultAvatar(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, g.URL("a@example.com"), u)
	assert.True(t, strings.HasPrefix(gotPath, "/avatar/"))
	assert.Len(t, strings.TrimPrefix(gotPath, "/avatar/"), 32)
	assert.Equal(t, "d=identicon", gotQuery)
}

func TestGravatar_DefaultAvatar_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewGravatar(srv.URL, "404").DefaultAvatar(context.Background(), "a@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGravatar_DefaultAvatar_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewGravatar(base, "").DefaultAvatar(context.Background(), "a@example.com")
	require.Error(t, err)
}
