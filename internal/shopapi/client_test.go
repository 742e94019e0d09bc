package shopapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akmalqodirov005/e-commerse/internal/sessions"
)

// fakeAPI mimics the parts of the shop API the client uses. Only "fresh" is a
// valid access token once the refresh endpoint has been called.
type fakeAPI struct {
	refreshes  atomic.Int32
	refreshErr bool
	lastQuery  atomic.Value // string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.Header.Get("Authorization") != "" {
			http.Error(w, "unexpected bearer", http.StatusBadRequest)
			return
		}
		if body["password"] != "changeme" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthorized","statusCode":401}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"stale","refresh_token":"r1"}`))
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		f.refreshes.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if f.refreshErr || body["refreshToken"] != "r1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"fresh","refresh_token":"r2"}`))
	})
	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"email":"john@mail.com","name":"Jhon","role":"customer"}`))
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.lastQuery.Store(r.URL.RawQuery)
			_, _ = w.Write([]byte(`[{"id":4,"title":"Shirt","price":10,"images":["https://img/4.png"],"category":{"id":1,"name":"Clothes"}}]`))
		case http.MethodPost:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":["price must be a positive number","title should not be empty"],"error":"Bad Request","statusCode":400}`))
		}
	})
	mux.HandleFunc("/products/4", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":4,"title":"Shirt","price":10}`))
		case http.MethodDelete:
			_, _ = w.Write([]byte(`true`))
		}
	})
	mux.HandleFunc("/categories/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Could not find any entity of type \"Category\"","statusCode":404}`))
	})
	return mux
}

func setup(t *testing.T) (*fakeAPI, *Client, *sessions.Manager) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	mgr := sessions.NewManager(sessions.NewMemoryStore())
	return api, New(srv.URL, mgr, 0, nil), mgr
}

func TestLogin(t *testing.T) {
	_, c, _ := setup(t)
	res, err := c.Login(context.Background(), "john@mail.com", "changeme")
	require.NoError(t, err)
	require.NotNil(t, res.AccessToken)
	require.Equal(t, "stale", *res.AccessToken)
	require.Equal(t, "r1", *res.RefreshToken)
	require.Nil(t, res.User)
}

func TestLogin_BadCredentials(t *testing.T) {
	_, c, _ := setup(t)
	_, err := c.Login(context.Background(), "john@mail.com", "nope")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnauthorized, se.StatusCode)
	require.Equal(t, "Unauthorized", se.Message)
}

// The profile call hits a 401, refreshes through the refresh endpoint and
// succeeds on the retry.
func TestProfile_RefreshesExpiredToken(t *testing.T) {
	api, c, mgr := setup(t)
	ctx := context.Background()
	res, err := c.Login(ctx, "john@mail.com", "changeme")
	require.NoError(t, err)
	require.NoError(t, mgr.Login(ctx, res))

	raw, err := c.Profile(ctx)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"email":"john@mail.com"`)
	require.Equal(t, int32(1), api.refreshes.Load())

	s := mgr.Snapshot()
	require.Equal(t, "fresh", s.AccessToken)
	require.Equal(t, "r1", s.RefreshToken)
}

func TestProfile_RefreshRejectedLogsOut(t *testing.T) {
	api, c, mgr := setup(t)
	api.refreshErr = true
	ctx := context.Background()
	require.NoError(t, mgr.Login(ctx, sessions.NewLoginResult(nil, "stale", "r1")))

	_, err := c.Profile(ctx)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnauthorized, se.StatusCode)
	require.False(t, mgr.Authenticated())
}

func TestRefreshAccessToken(t *testing.T) {
	_, c, _ := setup(t)
	tok, err := c.RefreshAccessToken(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, "fresh", tok)

	_, err = c.RefreshAccessToken(context.Background(), "other")
	require.Error(t, err)
}

func TestProducts_ListWithFilter(t *testing.T) {
	api, c, _ := setup(t)
	lo, hi := 5.0, 100.0
	f := ProductFilter{Title: "shirt", PriceMin: &lo, PriceMax: &hi, Offset: 10, Limit: 10}

	list, err := c.Products.List(context.Background(), f.Values())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Shirt", list[0].Title)
	require.Equal(t, "Clothes", list[0].Category.Name)
	require.Equal(t, "limit=10&offset=10&price_max=100&price_min=5&title=shirt", api.lastQuery.Load())
}

func TestProducts_GetAndDelete(t *testing.T) {
	_, c, _ := setup(t)
	ctx := context.Background()
	p, err := c.Products.Get(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, 10.0, p.Price)
	require.NoError(t, c.Products.Delete(ctx, 4))
}

func TestStatusError_Messages(t *testing.T) {
	_, c, _ := setup(t)
	ctx := context.Background()

	_, err := c.Products.Create(ctx, ProductInput{Title: "x"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusBadRequest, se.StatusCode)
	require.Equal(t, "price must be a positive number; title should not be empty", se.Message)

	_, err = c.Categories.Get(ctx, 9)
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.StatusCode)
	require.Contains(t, se.Message, "Could not find")
}

func TestProductFilter_ZeroValuesOmitted(t *testing.T) {
	require.Empty(t, ProductFilter{}.Values())
}
