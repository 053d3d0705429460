// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/crocante/auth"
	"github.com/danielhkuo/crocante/carousel"
	"github.com/danielhkuo/crocante/catalog"
	"github.com/danielhkuo/crocante/cliparse"
	"github.com/danielhkuo/crocante/db"
	"github.com/danielhkuo/crocante/models"
	"github.com/danielhkuo/crocante/reviews"
	"github.com/danielhkuo/crocante/session"
	"github.com/danielhkuo/crocante/storage"
)

const TestSessionSalt = "test-session-salt"

// SetupTestDB opens a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                cliparse.DefaultPort,
		DatabaseURL:         ":memory:",
		DatabaseType:        "sqlite",
		SessionSalt:         TestSessionSalt,
		CheckoutMode:        models.CheckoutStore,
		CEPBaseURL:          cliparse.DefaultCEPBaseURL,
		CarouselInterval:    cliparse.DefaultCarouselInterval,
		CarouselResumeDelay: cliparse.DefaultResumeDelay,
		SessionTTL:          cliparse.DefaultSessionTTL,
	}
}

// IdleClock arms carousel timers that never fire, so tests only see
// explicit navigation
type IdleClock struct{}

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

func (IdleClock) AfterFunc(time.Duration, func()) carousel.Timer { return idleTimer{} }

// NewTestManager returns a session manager over the default catalog and an
// in-memory store, closed when the test ends
func NewTestManager(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager(
		storage.NewMemoryStore(),
		catalog.NewStore(catalog.Default()),
		session.WithCarouselOptions(carousel.WithClock(IdleClock{})),
		session.WithReviewOptions(reviews.WithClock(IdleClock{})),
	)
	t.Cleanup(m.Close)
	return m
}

// CreateTestSession opens a session and returns it with its signed token
func CreateTestSession(t *testing.T, m *session.Manager, cfg cliparse.Config) (*session.Session, string) {
	t.Helper()
	s := m.Create(false)
	return s, auth.SignSession(s.ID, cfg.SessionSalt)
}

// CreateTestCustomer registers a loyalty customer, optionally with points
func CreateTestCustomer(t *testing.T, conn *sql.DB, nome string, pontos int) models.Customer {
	t.Helper()

	repo := db.NewLoyaltyRepo(conn)
	c, err := repo.Register(context.Background(), nome, "11999999999")
	if err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}
	if pontos > 0 {
		c, err = repo.AddPoints(context.Background(), c.ID, pontos, "Saldo inicial")
		if err != nil {
			t.Fatalf("Failed to add test points: %v", err)
		}
	}
	return c
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// SessionHeaders returns the header map carrying a session token
func SessionHeaders(token string) map[string]string {
	return map[string]string{"X-Session-ID": token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
