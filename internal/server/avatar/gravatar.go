// Package avatar resolves default avatars for new accounts and stores
// uploaded avatar images in S3-compatible object storage.
package avatar

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GravatarBaseURL is the public Gravatar endpoint.
const GravatarBaseURL = "https://www.gravatar.com"

// Gravatar builds Gravatar image URLs and checks that they resolve.
type Gravatar struct {
	client       *http.Client
	baseURL      string
	defaultStyle string
}

// NewGravatar returns a resolver requesting the given fallback style
// (identicon, robohash, retro...) for addresses without a Gravatar.
func NewGravatar(baseURL, defaultStyle string) *Gravatar {
	return &Gravatar{
		client:       &http.Client{Timeout: 10 * time.Second},
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultStyle: defaultStyle,
	}
}

// URL returns the image URL for email without contacting Gravatar.
func (g *Gravatar) URL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	u := g.baseURL + "/avatar/" + hex.EncodeToString(sum[:])
	if g.defaultStyle != "" {
		u += "?d=" + url.QueryEscape(g.defaultStyle)
	}
	return u
}

// DefaultAvatar fetches the image for email and returns its URL once the
// service has answered with 200.
func (g *Gravatar) DefaultAvatar(ctx context.Context, email string) (string, error) {
	u := g.URL(email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gravatar request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gravatar: unexpected status %d", resp.StatusCode)
	}
	return u, nil
}
