package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/portfolio/internal/app"
	"github.com/erazemk/portfolio/internal/model"
)

func setupTestServer(t *testing.T) (*httptest.Server, *app.App, string) {
	t.Helper()
	a := app.NewTestApp(t, nil)

	root := chi.NewRouter()
	root.Mount("/api", NewRouter(a))
	server := httptest.NewServer(root)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	err := a.Store.CreateUser(ctx, &model.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Gender:       model.GenderOther,
	})
	if err != nil {
		t.Fatalf("creating admin: %v", err)
	}

	return server, a, login(t, server, "admin@example.com", "password")
}

func login(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}
	return token
}

func authRequest(t *testing.T, method, url, token string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	defer resp.Body.Close()
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return e
}

func TestLoginEndpoint(t *testing.T) {
	server, _, _ := setupTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"wrong password", `{"email":"admin@example.com","password":"wrong"}`, http.StatusUnauthorized, "Incorrect password"},
		{"unknown email", `{"email":"nobody@example.com","password":"password"}`, http.StatusUnauthorized, "User not found"},
		{"missing fields", `{"email":""}`, http.StatusBadRequest, ""},
		{"unknown field", `{"username":"admin","password":"password"}`, http.StatusBadRequest, ""},
		{"not json", `nope`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewBufferString(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			e := decodeError(t, resp)
			if tt.msg != "" && e.Error != tt.msg {
				t.Errorf("expected message %q, got %q", tt.msg, e.Error)
			}
			if e.Code == "" {
				t.Error("expected an error code")
			}
		})
	}
}

func TestMissingToken(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/items")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != "unauthorized" {
		t.Errorf("expected code unauthorized, got %q", e.Code)
	}

	req := authRequest(t, "GET", server.URL+"/api/items", "not-a-token")
	resp = do(t, req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for garbage token, got %d", resp.StatusCode)
	}
}

func TestItemsAPIFlow(t *testing.T) {
	server, a, token := setupTestServer(t)
	ctx := context.Background()

	now := time.Now().UTC()
	item := &model.Item{
		ItemID:       "IMG-1",
		Pictures:     []string{"/uploads/picture-1.jpg"},
		Names:        []model.LocalizedName{{Locale: "en", Name: "Faisal Mosque"}},
		Descriptions: []model.LocalizedDescription{{Locale: "en", Description: "At dusk"}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.Store.CreateItem(ctx, item); err != nil {
		t.Fatal(err)
	}

	// List items.
	req := authRequest(t, "GET", server.URL+"/api/items", token)
	resp := do(t, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 || items[0].ItemID != "IMG-1" {
		t.Fatalf("unexpected items: %+v", items)
	}

	// Get one.
	req = authRequest(t, "GET", server.URL+"/api/items/"+item.ID, token)
	resp = do(t, req)
	var got model.Item
	json.NewDecoder(resp.Body).Decode(&got)
	resp.Body.Close()
	if got.Name("en") != "Faisal Mosque" {
		t.Errorf("expected name Faisal Mosque, got %q", got.Name("en"))
	}

	// Unknown id.
	req = authRequest(t, "GET", server.URL+"/api/items/missing", token)
	resp = do(t, req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != "not_found" {
		t.Errorf("expected code not_found, got %q", e.Code)
	}

	// Delete.
	req = authRequest(t, "DELETE", server.URL+"/api/items/"+item.ID, token)
	resp = do(t, req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if it, _ := a.Store.GetItem(ctx, item.ID); it != nil {
		t.Error("item still present after delete")
	}
}

func TestDeleteRequiresAdmin(t *testing.T) {
	server, a, _ := setupTestServer(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	err := a.Store.CreateUser(context.Background(), &model.User{
		Username:     "viewer",
		Email:        "viewer@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Gender:       model.GenderOther,
		Age:          30,
	})
	if err != nil {
		t.Fatal(err)
	}
	token := login(t, server, "viewer@example.com", "password")

	req := authRequest(t, "DELETE", server.URL+"/api/items/anything", token)
	resp := do(t, req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != "forbidden" {
		t.Errorf("expected code forbidden, got %q", e.Code)
	}

	// Reading is allowed.
	req = authRequest(t, "GET", server.URL+"/api/portfolios", token)
	resp = do(t, req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	var overview overviewResponse
	json.NewDecoder(resp.Body).Decode(&overview)
	if overview.Portfolios == nil || overview.Items == nil {
		t.Error("expected empty arrays, got null")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, _, token := setupTestServer(t)

	req := authRequest(t, "POST", server.URL+"/api/auth/logout", token)
	resp := do(t, req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	req = authRequest(t, "GET", server.URL+"/api/items", token)
	resp = do(t, req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestPortfolioEndpoint(t *testing.T) {
	server, a, token := setupTestServer(t)

	if _, err := a.Catalog.CreatePortfolio(context.Background(), "Islamabad"); err != nil {
		t.Fatal(err)
	}

	req := authRequest(t, "GET", server.URL+"/api/portfolios/Islamabad", token)
	resp := do(t, req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var p model.Portfolio
	json.NewDecoder(resp.Body).Decode(&p)
	if p.City != "Islamabad" {
		t.Errorf("expected Islamabad, got %q", p.City)
	}
}

func TestCORSPreflight(t *testing.T) {
	server, _, _ := setupTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/items", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	resp := do(t, req)
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected allow-origin *, got %q", got)
	}
}

func TestParseOrigins(t *testing.T) {
	got := parseOrigins(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", got)
	}
	if got := parseOrigins(""); len(got) != 1 || got[0] != "*" {
		t.Errorf("expected wildcard default, got %v", got)
	}
}
