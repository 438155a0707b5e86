package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/msomdec/blog-dashboard/internal/auth"
	"github.com/msomdec/blog-dashboard/internal/handler"
	"github.com/msomdec/blog-dashboard/internal/repository/sqlite"
	"github.com/msomdec/blog-dashboard/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testServer struct {
	*httptest.Server
	db       *sqlite.DB
	tokens   *auth.TokenService
	identity *service.IdentityResolver
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: testJWTSecret, TTL: time.Hour}, nil)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	hasher := auth.NewHasher(auth.WithPBKDF2Rounds(1000), auth.WithBcryptCost(bcrypt.MinCost))
	identity := service.NewIdentityResolver(db.Users(), tokens)

	router := handler.NewRouter(handler.RouterConfig{
		Accounts:     service.NewAccountService(db.Users(), hasher, tokens),
		Identity:     identity,
		Posts:        service.NewPostService(db.Posts(), db),
		DB:           db,
		CORSOrigins:  []string{"http://localhost:5173"},
		MaxBodyBytes: 4 << 10,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, db: db, tokens: tokens, identity: identity}
}

// do sends a JSON request and decodes a JSON response into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp
}

func (s *testServer) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "pw-" + username,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", username, resp.StatusCode)
	}

	var tok handler.TokenOut
	resp = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "pw-" + username,
	}, &tok)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", username, resp.StatusCode)
	}
	return tok.AccessToken
}

type errorBody struct {
	Error string `json:"error"`
}
