package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/nerrad567/rankine-core/internal/cycle"
	"github.com/nerrad567/rankine-core/internal/infrastructure/config"
	"github.com/nerrad567/rankine-core/internal/infrastructure/logging"
)

// memRepo is an in-memory cycle.Repository.
type memRepo struct {
	mu   sync.Mutex
	runs []cycle.Result
}

func (m *memRepo) Save(_ context.Context, res *cycle.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *res)
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (*cycle.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.runs {
		if m.runs[i].ID == id {
			res := m.runs[i]
			return &res, nil
		}
	}
	return nil, cycle.ErrRunNotFound
}

func (m *memRepo) List(_ context.Context, limit int) ([]cycle.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]cycle.Result, len(m.runs))
	copy(out, m.runs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubChecker struct{ err error }

func (c stubChecker) HealthCheck(context.Context) error { return c.err }

type stubStats struct{}

func (stubStats) Stats() sql.DBStats { return sql.DBStats{OpenConnections: 1, Idle: 1} }

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, config.LoggingConfig{Level: "error", Format: "text"}, "test")
}

func testDeps(svc CycleService) Deps {
	return Deps{
		Config: config.APIConfig{
			Host:     "127.0.0.1",
			Port:     0,
			Timeouts: config.APITimeoutConfig{Read: 5, Write: 5, Idle: 5},
		},
		WS: config.WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:  testLogger(),
		Cycles:  svc,
		Version: "test",
	}
}

// testServer creates a Server over a real cycle.Service with an in-memory
// repository, and registers the hub as a sink.
func testServer(t *testing.T) (*Server, *cycle.Service) {
	t.Helper()
	svc := cycle.NewService(&memRepo{}, nil, nil)
	srv, err := New(testDeps(svc))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	svc.AddSink(cycle.NewHubSink(srv.Hub()))
	return srv, svc
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestNew_RequiresDeps(t *testing.T) {
	deps := testDeps(nil)
	if _, err := New(deps); err == nil {
		t.Error("New() without cycle service should fail")
	}
	deps = testDeps(cycle.NewService(nil, nil, nil))
	deps.Logger = nil
	if _, err := New(deps); err == nil {
		t.Error("New() without logger should fail")
	}
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	srv.health = map[string]HealthChecker{"database": stubChecker{}}

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}

	srv.health["mqtt"] = stubChecker{err: errors.New("mqtt: client not connected")}
	rec = do(t, srv.Handler(), http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	body = decode[map[string]any](t, rec)
	components, _ := body["components"].(map[string]any) //nolint:errcheck // checked below
	if body["status"] != "degraded" || components["database"] != "ok" || components["mqtt"] == "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestSolveCycle_Defaults(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/cycles", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	res := decode[cycle.Result](t, rec)
	if res.ID == "" {
		t.Error("result has no ID")
	}
	if got := rec.Header().Get("Location"); got != "/api/v1/cycles/"+res.ID {
		t.Errorf("Location = %q", got)
	}
	if res.Spec != cycle.DefaultSpec() {
		t.Errorf("Spec = %+v, want defaults", res.Spec)
	}
	if res.Efficiency < 0.30 || res.Efficiency > 0.35 {
		t.Errorf("Efficiency = %v, want within [0.30, 0.35]", res.Efficiency)
	}
	if len(res.States) != 4 {
		t.Errorf("len(States) = %d, want 4", len(res.States))
	}
}

func TestSolveCycle_PartialSpec(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/cycles", `{"mass_flow": 200}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	res := decode[cycle.Result](t, rec)
	if res.Spec.MassFlow != 200 || res.Spec.BoilerHeatIn != cycle.DefaultBoilerHeatIn {
		t.Errorf("Spec = %+v", res.Spec)
	}
}

func TestSolveCycle_ZeroPumpWork(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/cycles", `{"pump_work_in": 0}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	res := decode[cycle.Result](t, rec)
	if res.Spec.PumpWorkIn != 0 || res.PumpWorkIn != 0 {
		t.Errorf("PumpWorkIn = %v (spec %v), want 0", res.PumpWorkIn, res.Spec.PumpWorkIn)
	}
	if res.Spec.MassFlow != cycle.DefaultMassFlow {
		t.Errorf("MassFlow = %v, want %v", res.Spec.MassFlow, cycle.DefaultMassFlow)
	}
}

func TestSolveCycle_Errors(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"malformed json", `{"mass_flow":`, http.StatusBadRequest, ErrCodeBadRequest},
		{"negative mass flow", `{"mass_flow": -1}`, http.StatusBadRequest, ErrCodeValidation},
		{"explicit zero mass flow", `{"mass_flow": 0}`, http.StatusBadRequest, ErrCodeValidation},
		{"explicit zero boiler heat", `{"boiler_heat_in": 0}`, http.StatusBadRequest, ErrCodeValidation},
		{"negative pump work", `{"pump_work_in": -5}`, http.StatusBadRequest, ErrCodeValidation},
		{"condenser above critical", `{"condenser_pressure": 30}`, http.StatusBadRequest, ErrCodeValidation},
		{"boiler exit beyond model", `{"mass_flow": 15}`, http.StatusUnprocessableEntity, ErrCodeUnprocessable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/cycles", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if got := decode[Error](t, rec); got.Code != tt.wantErr {
				t.Errorf("code = %q, want %q", got.Code, tt.wantErr)
			}
		})
	}
}

func TestListAndGetCycles(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()

	first, err := svc.Solve(ctx, cycle.DefaultSpec())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if _, err := svc.Solve(ctx, cycle.DefaultSpec()); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/cycles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decode[struct {
		Cycles []cycle.Result `json:"cycles"`
		Count  int            `json:"count"`
	}](t, rec)
	if list.Count != 2 || len(list.Cycles) != 2 {
		t.Errorf("count = %d, len = %d, want 2", list.Count, len(list.Cycles))
	}

	rec = do(t, srv.Handler(), http.MethodGet, "/api/v1/cycles?limit=1", "")
	if got := decode[map[string]any](t, rec)["count"]; got != float64(1) {
		t.Errorf("limited count = %v, want 1", got)
	}

	rec = do(t, srv.Handler(), http.MethodGet, "/api/v1/cycles?limit=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}

	rec = do(t, srv.Handler(), http.MethodGet, "/api/v1/cycles/"+first.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if got := decode[cycle.Result](t, rec); got.ID != first.ID {
		t.Errorf("ID = %q, want %q", got.ID, first.ID)
	}

	rec = do(t, srv.Handler(), http.MethodGet, "/api/v1/cycles/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", rec.Code)
	}
}

func TestSteamState(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/steam?p=0.01&x=0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[steamStateResponse](t, rec)
	if math.Abs(got.Temperature-318.956) > 0.01 {
		t.Errorf("Temperature = %v, want 318.956", got.Temperature)
	}
	if math.Abs(got.Enthalpy-191.81) > 0.05 {
		t.Errorf("Enthalpy = %v, want 191.81", got.Enthalpy)
	}
	if got.Quality == nil || *got.Quality != 0 {
		t.Errorf("Quality = %v, want 0", got.Quality)
	}
	if math.Abs(got.Density*got.Volume-1) > 1e-12 {
		t.Errorf("Density*Volume = %v, want 1", got.Density*got.Volume)
	}
}

func TestSteamState_Errors(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name     string
		query    string
		wantCode int
	}{
		{"one property", "p=1", http.StatusBadRequest},
		{"three properties", "p=1&t=400&h=500", http.StatusBadRequest},
		{"not a number", "p=one&t=400", http.StatusBadRequest},
		{"unsupported pair", "t=400&h=500", http.StatusBadRequest},
		{"region 3", "p=25&t=650", http.StatusUnprocessableEntity},
		{"quality above one", "p=1&x=1.5", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/steam?"+tt.query, "")
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	srv, _ := testServer(t)
	srv.db = stubStats{}

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	m := decode[SystemMetrics](t, rec)
	if m.Version != "test" || m.Runtime.Goroutines == 0 {
		t.Errorf("metrics = %+v", m)
	}
	if m.Database == nil || m.Database.OpenConnections != 1 {
		t.Errorf("Database = %+v", m.Database)
	}
}

func TestMiddleware(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/health", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("generated X-Request-ID missing")
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/cycles", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://dashboard.local" {
		t.Errorf("Allow-Origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRequestIDLimits(t *testing.T) {
	srv, _ := testServer(t)
	var seen string
	h := srv.requestIDMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, strings.Repeat("a", 200))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if len(seen) != 36 || rec.Header().Get(headerRequestID) != seen {
		t.Errorf("RequestID = %q, header %q, want a fresh UUID", seen, rec.Header().Get(headerRequestID))
	}
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID(empty) = %q, want empty", got)
	}
}

func TestCORSPolicy(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.CORSConfig
		origin  string
		allowed bool
	}{
		{"empty list admits all", config.CORSConfig{}, "http://a.local", true},
		{"listed origin", config.CORSConfig{AllowedOrigins: []string{"http://a.local"}}, "http://a.local", true},
		{"unlisted origin", config.CORSConfig{AllowedOrigins: []string{"http://a.local"}}, "http://b.local", false},
		{"wildcard", config.CORSConfig{AllowedOrigins: []string{"*"}}, "http://b.local", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCORSPolicy(tt.cfg).handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin") == tt.origin
			if got != tt.allowed {
				t.Errorf("allowed = %v, want %v", got, tt.allowed)
			}
			if rec.Code != http.StatusTeapot {
				t.Errorf("status = %d, want handler status", rec.Code)
			}
		})
	}

	p := newCORSPolicy(config.CORSConfig{AllowedMethods: []string{"GET"}, AllowedHeaders: []string{"X-A", "X-B"}})
	if p.methods != "GET" || p.headers != "X-A, X-B" {
		t.Errorf("policy = %+v", p)
	}
}

func TestBodySizeLimit(t *testing.T) {
	srv, _ := testServer(t)
	body := `{"mass_flow": 150, "pad": "` + strings.Repeat("x", maxRequestBodySize) + `"}`
	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/cycles", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for an oversized body", rec.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestStartClose(t *testing.T) {
	srv, _ := testServer(t)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	var idle Server
	if err := idle.Close(); err != nil {
		t.Errorf("Close() before Start error = %v", err)
	}
}
