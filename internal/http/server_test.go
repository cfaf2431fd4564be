package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/services"
	"spendlog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewServer(":0", store, services.NewTrackerService(store), Options{SessionTTL: time.Hour})
}

func doJSON(t *testing.T, s *Server, method, path string, session *http.Cookie, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func signup(t *testing.T, s *Server, username string) *http.Cookie {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/signup", nil,
		map[string]string{"username": username, "password": "hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("signup did not set a session cookie")
	return nil
}

func TestSignupSigninFlow(t *testing.T) {
	s := newTestServer(t)

	signup(t, s, "alice")

	rec := doJSON(t, s, http.MethodPost, "/api/signup", nil,
		map[string]string{"username": "alice", "password": "other"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/signin", nil,
		map[string]string{"username": "alice", "password": "hunter2"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/signin", nil,
		map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/signin", nil,
		map[string]string{"username": "ghost", "password": "hunter2"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEndpointsRequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/expenses"},
		{http.MethodPost, "/api/expenses"},
		{http.MethodGet, "/api/summary"},
		{http.MethodGet, "/api/budget"},
		{http.MethodGet, "/api/categories"},
	} {
		rec := doJSON(t, s, tc.method, tc.path, nil, nil)
		assert.Equalf(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	s := newTestServer(t)
	cookie := signup(t, s, "alice")

	// Defaults applied on add.
	rec := doJSON(t, s, http.MethodPost, "/api/expenses", cookie,
		map[string]any{"amount": 9.5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created core.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, core.DefaultCategory, created.Category)
	assert.Equal(t, core.Today(), created.Date)

	rec = doJSON(t, s, http.MethodPost, "/api/expenses", cookie,
		map[string]any{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/expenses", cookie,
		map[string]any{"amount": 5, "date": "garbage"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/expenses", cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []core.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	path := fmt.Sprintf("/api/expenses/%d", created.ID)

	rec = doJSON(t, s, http.MethodPut, path, cookie, map[string]any{"amount": 20})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated core.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 20.0, updated.Amount)

	rec = doJSON(t, s, http.MethodPut, path, cookie, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty update must be rejected")

	rec = doJSON(t, s, http.MethodDelete, path, cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, path, cookie, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOwnershipIsolation(t *testing.T) {
	s := newTestServer(t)
	alice := signup(t, s, "alice")
	mallory := signup(t, s, "mallory")

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", alice,
		map[string]any{"amount": 10, "category": "Food"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var exp core.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exp))

	path := fmt.Sprintf("/api/expenses/%d", exp.ID)
	assert.Equal(t, http.StatusNotFound, doJSON(t, s, http.MethodGet, path, mallory, nil).Code)
	assert.Equal(t, http.StatusNotFound,
		doJSON(t, s, http.MethodPut, path, mallory, map[string]any{"amount": 1}).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, s, http.MethodDelete, path, mallory, nil).Code)

	// Still intact for the owner.
	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, path, alice, nil).Code)
}

func TestSummaryAndMonthly(t *testing.T) {
	s := newTestServer(t)
	cookie := signup(t, s, "alice")

	for _, e := range []map[string]any{
		{"amount": 10, "category": "Food", "date": "2024-01-05"},
		{"amount": 5, "category": "Food", "date": "2024-01-20"},
		{"amount": 3, "category": "Transport", "date": "2024-02-01"},
	} {
		rec := doJSON(t, s, http.MethodPost, "/api/expenses", cookie, e)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/summary", cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, map[string]float64{"Food": 15, "Transport": 3}, summary)

	rec = doJSON(t, s, http.MethodGet, "/api/monthly", cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var monthly map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &monthly))
	assert.Equal(t, map[string]float64{"2024-01": 15, "2024-02": 3}, monthly)
}

func TestBudgetEndpoints(t *testing.T) {
	s := newTestServer(t)
	cookie := signup(t, s, "alice")

	rec := doJSON(t, s, http.MethodGet, "/api/budget?month=2024-01", cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"no_budget"`)
	assert.Contains(t, rec.Body.String(), `"limit":null`)

	rec = doJSON(t, s, http.MethodPost, "/api/budget", cookie,
		map[string]any{"month": "2024-01", "limit_amount": 100})
	require.Equal(t, http.StatusOK, rec.Code)

	var saved struct {
		Budget core.Budget       `json:"budget"`
		Status core.BudgetStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, 100.0, saved.Budget.LimitAmount)
	assert.Equal(t, core.StatusOK, saved.Status.Status)

	rec = doJSON(t, s, http.MethodPost, "/api/budget", cookie,
		map[string]any{"month": "2024/01", "limit_amount": 100})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/budget", cookie,
		map[string]any{"month": "2024-01", "limit_amount": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryEndpoints(t *testing.T) {
	s := newTestServer(t)
	cookie := signup(t, s, "alice")

	rec := doJSON(t, s, http.MethodGet, "/api/categories", cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []core.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Len(t, categories, len(core.DefaultCategories))

	rec = doJSON(t, s, http.MethodPost, "/api/categories", cookie,
		map[string]string{"name": "  Rent "})
	require.Equal(t, http.StatusCreated, rec.Code)
	var cat core.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	assert.Equal(t, "Rent", cat.Name)

	rec = doJSON(t, s, http.MethodPost, "/api/categories", cookie,
		map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), cookie, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), cookie, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/healthz", nil, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/readyz", nil, nil).Code)

	rec := doJSON(t, s, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	cookie := signup(t, s, "alice")
	rec = doJSON(t, s, http.MethodGet, "/api/health", cookie, nil)
	assert.Contains(t, rec.Body.String(), `"user":"alice"`)
}
