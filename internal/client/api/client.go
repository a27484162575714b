package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
)

const apiPrefix = "/api/v1"

// Client is the API surface the CLI depends on.
type Client interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	ConfirmEmail(ctx context.Context, token string) error
	Me(ctx context.Context) (*User, error)
	ListContacts(ctx context.Context, skip, limit int) ([]Contact, error)
	GetContact(ctx context.Context, id int64) (*Contact, error)
	CreateContact(ctx context.Context, in ContactInput) (*Contact, error)
	DeleteContact(ctx context.Context, id int64) (*Contact, error)
	UpcomingBirthdays(ctx context.Context, days int) ([]Contact, error)
	LoggedIn() bool
}

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *HTTPClient) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken = access, refresh
}

// LoggedIn reports whether a token pair is held.
func (c *HTTPClient) LoggedIn() bool {
	access, _ := c.tokens()
	return access != ""
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	bearer      string
}

func (c *HTTPClient) send(ctx context.Context, r request) (*http.Response, error) {
	u := c.baseURL + apiPrefix + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.bearer != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+r.bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// decode reads resp into out (if non-nil) or turns a non-2xx status into an error.
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return statusError(resp.StatusCode, eb.Detail)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authorized sends r with the access token. On 401 it refreshes the token
// pair once and retries; a failed refresh drops the session.
func (c *HTTPClient) authorized(ctx context.Context, r request, out any) error {
	access, refresh := c.tokens()
	if access == "" {
		return ErrUnauthorized
	}

	r.bearer = access
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusUnauthorized || refresh == "" {
		return decode(resp, out)
	}
	resp.Body.Close()

	if err := c.refresh(ctx, refresh); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.setTokens("", "")
		}
		return err
	}

	r.bearer, _ = c.tokens()
	resp, err = c.send(ctx, r)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *HTTPClient) refresh(ctx context.Context, refreshToken string) error {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/auth/refresh_token", bearer: refreshToken})
	if err != nil {
		return err
	}
	var tp tokenPair
	if err := decode(resp, &tp); err != nil {
		return err
	}
	c.setTokens(tp.AccessToken, tp.RefreshToken)
	return nil
}

func jsonRequest(method, path string, v any) (request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return request{}, err
	}
	return request{method: method, path: path, body: b, contentType: "application/json"}, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) error {
	r, err := jsonRequest(http.MethodPost, "/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	form := url.Values{"username": {email}, "password": {password}}
	resp, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		return err
	}

	var tp tokenPair
	if err := decode(resp, &tp); err != nil {
		return err
	}
	c.setTokens(tp.AccessToken, tp.RefreshToken)
	return nil
}

// Logout revokes the session on the server and forgets the tokens locally
// even when the server call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	defer c.setTokens("", "")
	return c.authorized(ctx, request{method: http.MethodPost, path: "/auth/logout"}, nil)
}

func (c *HTTPClient) ConfirmEmail(ctx context.Context, token string) error {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/auth/confirmed_email/" + url.PathEscape(token)})
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.authorized(ctx, request{method: http.MethodGet, path: "/users/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListContacts(ctx context.Context, skip, limit int) ([]Contact, error) {
	q := url.Values{"skip": {strconv.Itoa(skip)}, "limit": {strconv.Itoa(limit)}}
	var list []Contact
	if err := c.authorized(ctx, request{method: http.MethodGet, path: "/contacts", query: q}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetContact(ctx context.Context, id int64) (*Contact, error) {
	var ct Contact
	if err := c.authorized(ctx, request{method: http.MethodGet, path: contactPath(id)}, &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}

func (c *HTTPClient) CreateContact(ctx context.Context, in ContactInput) (*Contact, error) {
	r, err := jsonRequest(http.MethodPost, "/contacts", in)
	if err != nil {
		return nil, err
	}
	var ct Contact
	if err := c.authorized(ctx, r, &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}

func (c *HTTPClient) DeleteContact(ctx context.Context, id int64) (*Contact, error) {
	var ct Contact
	if err := c.authorized(ctx, request{method: http.MethodDelete, path: contactPath(id)}, &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}

func (c *HTTPClient) UpcomingBirthdays(ctx context.Context, days int) ([]Contact, error) {
	q := url.Values{"interval": {strconv.Itoa(days)}}
	var list []Contact
	if err := c.authorized(ctx, request{method: http.MethodGet, path: "/contacts/birthday", query: q}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func contactPath(id int64) string {
	return "/contacts/" + strconv.FormatInt(id, 10)
}
