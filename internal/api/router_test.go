package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/salestrack/salestrack-api/internal/core/analytics"
	"github.com/salestrack/salestrack-api/internal/core/domain"
	"github.com/salestrack/salestrack-api/internal/core/service"
)

// memUsers is an in-memory AuthRepository.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	cp := *user
	cp.ID = "user-" + user.Email
	m.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) IncrementTokenVersion(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	u.TokenVersion++
	return u.TokenVersion, nil
}

func (m *memUsers) GetTokenVersion(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	return u.TokenVersion, nil
}

// fixedSales is a read-only SaleRepository over a fixed slice.
type fixedSales struct {
	sales []domain.Sale
}

func (f fixedSales) FetchSales(context.Context, *time.Time, *time.Time) ([]domain.Sale, error) {
	return f.sales, nil
}

func (f fixedSales) List(context.Context) ([]domain.Sale, error) {
	return f.sales, nil
}

func (f fixedSales) FindByID(context.Context, string) (*domain.Sale, error) {
	return nil, domain.ErrSaleNotFound
}

func (f fixedSales) FindByCategory(context.Context, string) ([]domain.Sale, error) {
	return nil, nil
}

func (f fixedSales) FindByRegion(context.Context, string) ([]domain.Sale, error) {
	return nil, nil
}

func (f fixedSales) Create(context.Context, domain.Sale) error {
	return nil
}

func (f fixedSales) Update(context.Context, domain.Sale) error {
	return domain.ErrSaleNotFound
}

func (f fixedSales) Delete(context.Context, string) error {
	return domain.ErrSaleNotFound
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	log := zerolog.Nop()
	sales := fixedSales{sales: []domain.Sale{
		{ID: "1", ProductName: "Laptop", Category: "Electronics", Region: "North", SalesRepresentative: "John", Quantity: 1, Amount: decimal.RequireFromString("1000.00"), SaleDate: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "2", ProductName: "Chair", Category: "Furniture", Region: "South", SalesRepresentative: "Jane", Quantity: 2, Amount: decimal.RequireFromString("500.00"), SaleDate: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
	}}

	return NewRouter(Deps{
		Auth:      service.NewAuthService(&memUsers{users: map[string]*domain.User{}}, "test-secret", time.Hour, log),
		Sales:     service.NewSaleService(sales, log),
		Analytics: service.NewAnalyticsService(sales, analytics.SystemClock{}, log),
		Log:       log,
		Registry:  prometheus.NewRegistry(),
	})
}

func do(t *testing.T, srv http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv http.Handler) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login: no token in %s", rec.Body.String())
	}
	return resp.Token
}

func TestRouter_HealthAndPrometheus(t *testing.T) {
	srv := newTestServer(t)

	if rec := do(t, srv, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready without dependencies: expected 200, got %d", rec.Code)
	}

	// One request so the HTTP histogram has a sample to expose.
	do(t, srv, http.MethodGet, "/health", "", "")
	rec := do(t, srv, http.MethodGet, "/prometheus", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("prometheus: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "requests_total") {
		t.Fatalf("expected echo request metrics, got:\n%s", rec.Body.String())
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{"/api/metrics", "/api/metrics/today", "/api/visualization/charts", "/api/sales", "/api/auth/me"} {
		rec := do(t, srv, http.MethodGet, target, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error":"unauthorized"`) {
			t.Fatalf("%s: unexpected body %s", target, rec.Body.String())
		}
	}
}

func TestRouter_LoginInvalidatesPreviousToken(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, srv, http.MethodPost, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", rec.Code)
	}

	first := login(t, srv)
	if rec := do(t, srv, http.MethodGet, "/api/metrics", "", first); rec.Code != http.StatusOK {
		t.Fatalf("first token: expected 200, got %d", rec.Code)
	}

	second := login(t, srv)
	if rec := do(t, srv, http.MethodGet, "/api/metrics", "", first); rec.Code != http.StatusUnauthorized {
		t.Fatalf("stale token: expected 401, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/api/metrics", "", second)
	if rec.Code != http.StatusOK {
		t.Fatalf("current token: expected 200, got %d", rec.Code)
	}
	var m struct {
		TotalSales    int `json:"totalSales"`
		TotalQuantity int `json:"totalQuantity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if m.TotalSales != 2 || m.TotalQuantity != 3 {
		t.Fatalf("unexpected metrics: %+v", m)
	}

	rec = do(t, srv, http.MethodGet, "/api/auth/me", "", second)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Fatalf("me: unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")

	wrong := do(t, srv, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"nope"}`, "")
	unknown := do(t, srv, http.MethodPost, "/api/auth/login", `{"email":"ghost@example.com","password":"nope"}`, "")

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("responses differ: %q vs %q", wrong.Body.String(), unknown.Body.String())
	}
}

func TestRouter_BadQueryDate(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")
	token := login(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/visualization/charts?startDate=not-a-date", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/api/metrics?startDate=2024-02-01&endDate=2024-01-01", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("inverted range: expected 400, got %d", rec.Code)
	}
}
