package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kurenai-11/socket-chat-app/internal/app/chat"
	"github.com/kurenai-11/socket-chat-app/internal/app/user"
	"github.com/kurenai-11/socket-chat-app/internal/configs"
)

const authTestSecret = "auth_test_secret"

// fakeStore is an in-memory user.Store for handler tests.
type fakeStore struct {
	mu      sync.Mutex
	nextID  int64
	users   map[string]user.User
	revoked map[int64]map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:  1,
		users:   make(map[string]user.User),
		revoked: make(map[int64]map[string]bool),
	}
}

func (s *fakeStore) Create(ctx context.Context, username, passwordHash, displayName string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return user.User{}, user.ErrAlreadyExists
	}

	u := user.User{
		ID:           s.nextID,
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
	}
	s.nextID++
	s.users[username] = u

	return u, nil
}

func (s *fakeStore) GetByUsername(ctx context.Context, username string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (s *fakeStore) RevokeRefreshToken(ctx context.Context, id int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, u := range s.users {
		if u.ID == id {
			found = true
		}
	}
	if !found {
		return user.ErrNotFound
	}

	if s.revoked[id] == nil {
		s.revoked[id] = make(map[string]bool)
	}
	s.revoked[id][token] = true
	return nil
}

func (s *fakeStore) IsRefreshTokenRevoked(ctx context.Context, id int64, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.revoked[id][token], nil
}

func (s *fakeStore) deleteUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, username)
}

func newAuthTestServer(t *testing.T) (*httptest.Server, *fakeStore) {
	t.Helper()

	hub := chat.NewHub(chat.NewAuthenticator(authTestSecret))
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	store := newFakeStore()

	deps := &AppDeps{
		Hub: hub,
		Config: &configs.AppConfig{
			Environment: "development",
			JWTSecret:   authTestSecret,
		},
		Users: store,
	}

	srv := httptest.NewServer(Router(deps))
	t.Cleanup(srv.Close)

	return srv, store
}

type authResponse struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	AccessToken string    `json:"accessToken"`
	User        user.User `json:"user"`
}

func postJSON(t *testing.T, url string, body any, cookies []*http.Cookie, bearer string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func decodeAuthResponse(t *testing.T, res *http.Response) authResponse {
	t.Helper()
	defer res.Body.Close()

	var body authResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body
}

func refreshCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range res.Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	t.Fatal("expected a refresh token cookie")
	return nil
}

func signup(t *testing.T, srv *httptest.Server, login, password string) (authResponse, *http.Cookie) {
	t.Helper()

	res := postJSON(t, srv.URL+"/auth", AuthInput{Action: "signup", Login: login, Password: password}, nil, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("signup failed with status %d", res.StatusCode)
	}

	cookie := refreshCookie(t, res)
	return decodeAuthResponse(t, res), cookie
}

func TestSignupAndLogin(t *testing.T) {
	srv, _ := newAuthTestServer(t)

	created, cookie := signup(t, srv, "alice", "Password1")
	if created.Status != "success" {
		t.Fatalf("expected success status, got %q", created.Status)
	}
	if created.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if created.User.Username != "alice" || created.User.ID == 0 {
		t.Fatalf("unexpected user payload: %+v", created.User)
	}
	if !cookie.HttpOnly {
		t.Fatal("refresh cookie must be httpOnly")
	}

	// duplicate signup conflicts
	res := postJSON(t, srv.URL+"/auth", AuthInput{Action: "signup", Login: "alice", Password: "Password1"}, nil, "")
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate signup, got %d", res.StatusCode)
	}
	if body := decodeAuthResponse(t, res); body.Message != "user already exists" {
		t.Fatalf("unexpected conflict message %q", body.Message)
	}

	// correct credentials log in
	res = postJSON(t, srv.URL+"/auth", AuthInput{Action: "login", Login: "alice", Password: "Password1"}, nil, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for login, got %d", res.StatusCode)
	}
	if body := decodeAuthResponse(t, res); body.AccessToken == "" {
		t.Fatal("expected an access token on login")
	}

	// wrong password and unknown user are indistinguishable
	for _, input := range []AuthInput{
		{Action: "login", Login: "alice", Password: "Password2"},
		{Action: "login", Login: "nobody", Password: "Password1"},
	} {
		res := postJSON(t, srv.URL+"/auth", input, nil, "")
		if res.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", res.StatusCode)
		}
		if body := decodeAuthResponse(t, res); body.Message != "username or password is incorrect" {
			t.Fatalf("unexpected message %q", body.Message)
		}
	}
}

func TestAuthInputValidation(t *testing.T) {
	srv, _ := newAuthTestServer(t)

	cases := []struct {
		name  string
		input AuthInput
	}{
		{"login too short", AuthInput{Action: "signup", Login: "ab", Password: "Password1"}},
		{"login bad characters", AuthInput{Action: "signup", Login: "al ice!", Password: "Password1"}},
		{"password too short", AuthInput{Action: "signup", Login: "alice", Password: "Pw1"}},
		{"password without digit", AuthInput{Action: "signup", Login: "alice", Password: "Password"}},
		{"password without uppercase", AuthInput{Action: "signup", Login: "alice", Password: "password1"}},
		{"unknown action", AuthInput{Action: "reset", Login: "alice", Password: "Password1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := postJSON(t, srv.URL+"/auth", tc.input, nil, "")
			defer res.Body.Close()
			if res.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", res.StatusCode)
			}
		})
	}
}

func TestVerifyIssuesFreshAccessToken(t *testing.T) {
	srv, store := newAuthTestServer(t)

	_, cookie := signup(t, srv, "alice", "Password1")

	// token from the cookie
	res := postJSON(t, srv.URL+"/auth/verify", map[string]any{}, []*http.Cookie{cookie}, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if body := decodeAuthResponse(t, res); body.AccessToken == "" {
		t.Fatal("expected a fresh access token")
	}

	// token in the body works without the cookie
	res = postJSON(t, srv.URL+"/auth/verify", VerifyInput{RefreshToken: cookie.Value}, nil, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for body token, got %d", res.StatusCode)
	}
	res.Body.Close()

	// no token at all
	res = postJSON(t, srv.URL+"/auth/verify", map[string]any{}, nil, "")
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", res.StatusCode)
	}
	res.Body.Close()

	// tampered token
	res = postJSON(t, srv.URL+"/auth/verify", VerifyInput{RefreshToken: "garbage"}, nil, "")
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for a bad token, got %d", res.StatusCode)
	}
	res.Body.Close()

	// account deleted since the token was minted
	store.deleteUser("alice")
	res = postJSON(t, srv.URL+"/auth/verify", map[string]any{}, []*http.Cookie{cookie}, "")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for a vanished account, got %d", res.StatusCode)
	}
	res.Body.Close()
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	srv, _ := newAuthTestServer(t)

	created, cookie := signup(t, srv, "alice", "Password1")

	// without an access token the route is unreachable
	res := postJSON(t, srv.URL+"/auth/logout", map[string]any{}, []*http.Cookie{cookie}, "")
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without access token, got %d", res.StatusCode)
	}
	res.Body.Close()

	// with an access token but no refresh cookie
	res = postJSON(t, srv.URL+"/auth/logout", map[string]any{}, nil, created.AccessToken)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without refresh cookie, got %d", res.StatusCode)
	}
	res.Body.Close()

	// proper logout
	res = postJSON(t, srv.URL+"/auth/logout", map[string]any{}, []*http.Cookie{cookie}, created.AccessToken)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	for _, c := range res.Cookies() {
		if c.Name == refreshCookieName && c.MaxAge >= 0 {
			t.Fatal("logout must clear the refresh cookie")
		}
	}
	res.Body.Close()

	// the revoked refresh token can no longer mint access tokens
	res = postJSON(t, srv.URL+"/auth/verify", map[string]any{}, []*http.Cookie{cookie}, "")
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for a revoked token, got %d", res.StatusCode)
	}
	res.Body.Close()
}
