package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/careers-portal/internal/config"
	"github.com/jonathan/careers-portal/internal/session"
	"github.com/jonathan/careers-portal/internal/types"
)

// fakeRemote records calls and returns canned API results.
type fakeRemote struct {
	mu sync.Mutex

	jobs      []types.Job
	jobsErr   error
	listCalls int

	registerErr error
	registered  []types.RegisterRequest

	loginResp *types.LoginResponse
	loginErr  error

	profile    *types.Profile
	profileErr error

	updateResp *types.StatusResponse
	updateErr  error
	updates    []types.ProfileUpdate

	submitResp *types.StatusResponse
	submitErr  error
	submits    []types.ApplicationRequest
	tokens     []string
}

func (f *fakeRemote) ListJobs(_ context.Context, _ types.JobListRequest) ([]types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.jobsErr != nil {
		return nil, f.jobsErr
	}
	return f.jobs, nil
}

func (f *fakeRemote) Register(_ context.Context, req types.RegisterRequest) (*types.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, req)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	ok := true
	return &types.StatusResponse{Status: &ok, Message: "Candidate created"}, nil
}

func (f *fakeRemote) Login(_ context.Context, _ types.LoginRequest) (*types.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.loginResp != nil {
		return f.loginResp, nil
	}
	return &types.LoginResponse{
		Status:  true,
		Message: "Login successful",
		Token:   "api-token",
		Data:    json.RawMessage(`{"id":7,"full_name":"Asha Rao"}`),
	}, nil
}

func (f *fakeRemote) GetProfile(_ context.Context, token string) (*types.Profile, error) {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile == nil {
		return &types.Profile{}, nil
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeRemote) UpdateProfile(_ context.Context, _ string, u types.ProfileUpdate) (*types.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateResp != nil {
		return f.updateResp, nil
	}
	return &types.StatusResponse{}, nil
}

func (f *fakeRemote) CreateApplication(_ context.Context, token string, req types.ApplicationRequest) (*types.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, req)
	f.tokens = append(f.tokens, token)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.submitResp != nil {
		return f.submitResp, nil
	}
	ok := true
	return &types.StatusResponse{Status: &ok, Message: "Application submitted"}, nil
}

func testJob(id int64, title, dept, category, location string) types.Job {
	return types.Job{
		ID:                   id,
		CompanyFID:           1,
		CompanyRegFID:        3,
		DepartmentFID:        7,
		JobDescription:       "<p>Work on <b>" + title + "</b></p>",
		SalaryMin:            5,
		SalaryMax:            8,
		SalaryCurrency:       "INR",
		SalaryFrequency:      types.FrequencyAnnually,
		DesignationDirectory: &types.DesignationDirectory{DesignationName: title},
		DepartmentDirectory:  &types.DepartmentDirectory{DepartmentName: dept},
		EmployeeCategory:     &types.EmployeeCategory{CategoryName: category},
		LocationDirectory:    &types.LocationDirectory{LocationName: location},
	}
}

func sampleRemote() *fakeRemote {
	return &fakeRemote{
		jobs: []types.Job{
			testJob(1, "Backend Engineer", "Engineering", "FULL_TIME", "Pune"),
			testJob(2, "Account Executive", "Sales", "FULL_TIME", "Remote"),
			testJob(3, "Frontend Engineer", "Engineering", "CONTRACT", "Remote"),
		},
		profile: &types.Profile{
			ID:                 7,
			FullName:           "Asha Rao",
			LoginEmail:         "asha@example.com",
			Phone:              "+91 98765 43210",
			LinkedInProfileURL: "https://www.linkedin.com/in/asha",
			ProfileSummary:     "Backend developer",
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			PublicURL:       "https://careers.example.com",
			ShutdownTimeout: time.Second,
		},
		API: config.APIConfig{BaseURL: "http://api.example.com", ImageBaseURL: "https://cdn.example.com/"},
		Session: config.SessionConfig{
			Secret:     "test-secret",
			TTL:        time.Hour,
			CookieName: "careers_session",
			Store:      config.StoreMemory,
		},
		Catalog:   config.CatalogConfig{PageSize: 100},
		Apply:     config.ApplyConfig{MaxImageBytes: 1 << 20},
		Candidate: config.CandidateConfig{CompanyFID: 1, CompanyRegFID: 1, DepartmentFID: 2},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Logging:   config.LoggingConfig{Level: "info", Format: "json"},
	}
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config, remote *fakeRemote) *Server {
	t.Helper()
	s, err := New(Options{Config: cfg, Remote: remote, Store: session.NewMemoryStore(cfg.Session.TTL)})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func newTestServer(t *testing.T, remote *fakeRemote) *Server {
	return newTestServerWithConfig(t, testConfig(), remote)
}

// visitor drives the server like a browser keeping the session cookie.
type visitor struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newVisitor(t *testing.T, s *Server) *visitor {
	return &visitor{t: t, handler: s.Handler()}
}

func (v *visitor) do(req *http.Request) *httptest.ResponseRecorder {
	if v.cookie != nil {
		req.AddCookie(v.cookie)
	}
	req.RemoteAddr = "192.0.2.10:5555"
	w := httptest.NewRecorder()
	v.handler.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == "careers_session" {
			v.cookie = c
		}
	}
	return w
}

func (v *visitor) get(path string) *httptest.ResponseRecorder {
	return v.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (v *visitor) post(path string) *httptest.ResponseRecorder {
	return v.do(httptest.NewRequest(http.MethodPost, path, nil))
}

func (v *visitor) postJSON(path string, body any) *httptest.ResponseRecorder {
	b, err := json.Marshal(body)
	require.NoError(v.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return v.do(req)
}

func (v *visitor) multipart(method, path string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, val := range fields {
		require.NoError(v.t, mw.WriteField(k, val))
	}
	for field, data := range files {
		fw, err := mw.CreateFormFile(field, field+".bin")
		require.NoError(v.t, err)
		_, err = fw.Write(data)
		require.NoError(v.t, err)
	}
	require.NoError(v.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return v.do(req)
}

// login signs the visitor in through the API.
func (v *visitor) login() LoginResponse {
	w := v.postJSON("/auth/login", map[string]string{
		"login_email":    "asha@example.com",
		"login_password": "secret1",
	})
	require.Equal(v.t, http.StatusOK, w.Code, w.Body.String())
	return decode[LoginResponse](v.t, w)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{Remote: &fakeRemote{}, Store: session.NewMemoryStore(time.Hour)})
	assert.Error(t, err)
	_, err = New(Options{Config: testConfig(), Store: session.NewMemoryStore(time.Hour)})
	assert.Error(t, err)
	_, err = New(Options{Config: testConfig(), Remote: &fakeRemote{}})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, sampleRemote())
	v := newVisitor(t, s)

	w := v.get("/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decode[map[string]any](t, w)
	assert.Equal(t, "ok", resp["status"])
	assert.Nil(t, v.cookie, "health checks do not start a session")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, sampleRemote())
	v := newVisitor(t, s)

	v.get("/health")
	w := v.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "careers_http_requests_total")
}

func TestSessionCookie(t *testing.T) {
	s := newTestServer(t, sampleRemote())
	v := newVisitor(t, s)

	w := v.get("/auth/session")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, v.cookie)
	first := v.cookie.Value

	w = v.get("/auth/session")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies(), "a valid cookie is kept")
	assert.Equal(t, first, v.cookie.Value)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, sampleRemote())

	req := httptest.NewRequest(http.MethodOptions, "/jobs", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Minute}
	s := newTestServerWithConfig(t, cfg, sampleRemote())
	v := newVisitor(t, s)

	for i := 0; i < 2; i++ {
		w := v.get("/auth/session")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := v.get("/auth/session")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.True(t, strings.Contains(w.Body.String(), "rate_limit_exceeded"))

	// Health checks are never limited.
	assert.Equal(t, http.StatusOK, v.get("/health").Code)
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Port = 0
	s := newTestServerWithConfig(t, cfg, sampleRemote())
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

var errUnavailable = errors.New("connection refused")
