package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/akmalqodirov005/e-commerse/internal/sessions"
	"github.com/akmalqodirov005/e-commerse/pkg/logger"
)

// ErrEmptyToken is returned when the refresh endpoint answers 2xx without an access_token.
var ErrEmptyToken = errors.New("shop api returned no access token")

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// Client talks to the remote shop REST API. Calls made through it are
// authorized by the session and recover once from an expired access token.
type Client struct {
	baseURL string
	authed  *http.Client
	// plain carries login and refresh, which must never be authorized or retried.
	plain *http.Client

	Products   *Resource[Product, ProductInput]
	Categories *Resource[Category, CategoryInput]
	Locations  *Resource[Location, LocationInput]
	Users      *Resource[User, UserInput]
}

// New builds a client for baseURL bound to the given session. base is the
// underlying transport; nil means http.DefaultTransport.
func New(baseURL string, session *sessions.Manager, timeout time.Duration, base http.RoundTripper) *Client {
	if base == nil {
		base = http.DefaultTransport
	}
	c := &Client{
		baseURL: baseURL,
		plain:   &http.Client{Transport: base, Timeout: timeout},
	}
	c.authed = &http.Client{Transport: sessions.NewTransport(session, c, base), Timeout: timeout}
	c.Products = &Resource[Product, ProductInput]{c: c, path: "/products"}
	c.Categories = &Resource[Category, CategoryInput]{c: c, path: "/categories"}
	c.Locations = &Resource[Location, LocationInput]{c: c, path: "/locations"}
	c.Users = &Resource[User, UserInput]{c: c, path: "/users"}
	return c
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (sessions.LoginResult, error) {
	var res sessions.LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, c.plain, http.MethodPost, "/auth/login", nil, body, &res); err != nil {
		return sessions.LoginResult{}, err
	}
	return res, nil
}

// RefreshAccessToken implements sessions.Refresher.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	var res struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, c.plain, http.MethodPost, "/auth/refresh-token", nil, body, &res); err != nil {
		return "", err
	}
	if res.AccessToken == "" {
		return "", ErrEmptyToken
	}
	return res.AccessToken, nil
}

// Profile returns the authenticated user's profile as sent by the API.
func (c *Client) Profile(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, c.authed, http.MethodGet, "/auth/profile", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, in, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		se := newStatusError(resp.StatusCode, b)
		logger.Debugf("shopapi: %s %s -> %d %s", method, path, se.StatusCode, se.Message)
		return se
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Resource is the CRUD surface of one REST collection.
type Resource[T any, In any] struct {
	c    *Client
	path string
}

func (r *Resource[T, In]) List(ctx context.Context, query url.Values) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, r.c.authed, http.MethodGet, r.path, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T, In]) Get(ctx context.Context, id int) (T, error) {
	var out T
	err := r.c.do(ctx, r.c.authed, http.MethodGet, fmt.Sprintf("%s/%d", r.path, id), nil, nil, &out)
	return out, err
}

func (r *Resource[T, In]) Create(ctx context.Context, in In) (T, error) {
	var out T
	err := r.c.do(ctx, r.c.authed, http.MethodPost, r.path, nil, in, &out)
	return out, err
}

func (r *Resource[T, In]) Update(ctx context.Context, id int, in In) (T, error) {
	var out T
	err := r.c.do(ctx, r.c.authed, http.MethodPut, fmt.Sprintf("%s/%d", r.path, id), nil, in, &out)
	return out, err
}

func (r *Resource[T, In]) Delete(ctx context.Context, id int) error {
	return r.c.do(ctx, r.c.authed, http.MethodDelete, fmt.Sprintf("%s/%d", r.path, id), nil, nil, nil)
}
