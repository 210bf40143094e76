package main

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sushihentaime/agencysite/internal/blogservice"
	"github.com/sushihentaime/agencysite/internal/common"
	"github.com/sushihentaime/agencysite/internal/dashboardservice"
	"github.com/sushihentaime/agencysite/internal/inquiryservice"
	"github.com/sushihentaime/agencysite/internal/reviewservice"
	"github.com/sushihentaime/agencysite/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

func testConfig() *Config {
	return &Config{
		Port:                  4000,
		Environment:           "test",
		Version:               "test",
		TrustedOrigins:        []string{"http://localhost:3000"},
		CacheTTL:              time.Minute,
		DashboardQueryTimeout: 3 * time.Second,
		LimiterEnabled:        true,
		LimiterRPS:            0.01,
		LimiterBurst:          2,
	}
}

// newUnitApplication is enough for middleware that never reaches a service.
func newUnitApplication() *application {
	cfg := testConfig()

	return &application{
		config:  cfg,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		limiter: newIPLimiter(cfg.LimiterRPS, cfg.LimiterBurst),
	}
}

func newTestApplication(t *testing.T) (*application, *sql.DB, *common.MockProducer) {
	db := common.TestDB(t)
	mb := &common.MockProducer{}
	cache := common.NewCache(time.Minute, 2*time.Minute)
	app := newUnitApplication()

	reviewService := reviewservice.NewReviewService(db, mb, cache, app.logger)

	app.userService = userservice.NewUserService(db, mb)
	app.reviewService = reviewService
	app.blogService = blogservice.NewBlogService(db, cache)
	app.inquiryService = inquiryservice.NewInquiryService(db, mb, cache, app.logger)
	app.dashboardService = dashboardservice.NewDashboardService(db, reviewService, cache, app.config.DashboardQueryTimeout, app.logger)

	return app, db, mb
}

// testToken opens a session for userID and returns the bearer token.
func testToken(t *testing.T, db *sql.DB, userID int) string {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		t.Fatal(err)
	}

	plain := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	access := sha256.Sum256([]byte(plain))
	refresh := sha256.Sum256([]byte(plain + "refresh"))

	_, err := db.Exec(`
		INSERT INTO auth_tokens (access_token, refresh_token, user_id, access_token_expiry, refresh_token_expiry)
		VALUES ($1, $2, $3, $4, $5)`, access[:], refresh[:], userID, time.Now().Add(time.Hour), time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	return plain
}

func (ts *testServer) do(t *testing.T, method, path, token string, payload any) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) post(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) get(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) patch(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPatch, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, token, nil)
}
