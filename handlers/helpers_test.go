package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/akmalqodirov005/e-commerse/internal/cart"
	"github.com/akmalqodirov005/e-commerse/internal/sessions"
	"github.com/akmalqodirov005/e-commerse/internal/shopapi"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// remoteAPI fakes the shop API. Login hands out "stale", which the protected
// endpoints reject until it is refreshed to "fresh".
type remoteAPI struct {
	mu       sync.Mutex
	received []string // "METHOD path body" of write calls
}

func (f *remoteAPI) record(r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.received = append(f.received, r.Method+" "+r.URL.Path+" "+string(b))
	f.mu.Unlock()
}

func (f *remoteAPI) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

func authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer fresh" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthorized","statusCode":401}`))
		return false
	}
	return true
}

func (f *remoteAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "changeme" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthorized","statusCode":401}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"stale","refresh_token":"r1"}`))
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refreshToken"] != "r1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"fresh","refresh_token":"r2"}`))
	})
	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			_, _ = w.Write([]byte(`{"id":1,"email":"john@mail.com","name":"Jhon","role":"admin"}`))
		}
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if !authorized(w, r) {
				return
			}
			f.record(r)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":50,"title":"Shirt","price":10}`))
			return
		}
		w.Header().Set("X-Query", r.URL.RawQuery)
		_, _ = w.Write([]byte(`[{"id":4,"title":"Shirt","price":10,"images":["https://img/4.png"]}]`))
	})
	mux.HandleFunc("/products/4", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":4,"title":"Shirt","price":10,"images":["https://img/4.png"]}`))
		case http.MethodDelete:
			if authorized(w, r) {
				f.record(r)
				_, _ = w.Write([]byte(`true`))
			}
		}
	})
	mux.HandleFunc("/products/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Could not find any entity of type \"Product\"","statusCode":404}`))
	})
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Clothes"}]`))
	})
	return mux
}

type testEnv struct {
	router  *gin.Engine
	remote  *remoteAPI
	session *sessions.Manager
	store   *sessions.MemoryStore
	cart    *cart.Service
}

func newTestEnv(t *testing.T, up Uploader) *testEnv {
	t.Helper()
	remote := &remoteAPI{}
	srv := httptest.NewServer(remote.handler())
	t.Cleanup(srv.Close)

	store := sessions.NewMemoryStore()
	mgr := sessions.NewManager(store)
	api := shopapi.New(srv.URL, mgr, 0, nil)
	svc := cart.NewService(context.Background(), cart.NewMemoryRepository())

	r := gin.New()
	RegisterRoutes(r, Deps{Session: mgr, API: api, Cart: svc, Uploader: up})
	return &testEnv{router: r, remote: remote, session: mgr, store: store, cart: svc}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	w := e.do(http.MethodPost, "/auth/login", `{"email":"john@mail.com","password":"changeme"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}
