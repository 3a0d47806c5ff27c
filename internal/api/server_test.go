package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/pbaille/dewey/internal/daily"
	"github.com/pbaille/dewey/internal/domain"
	"github.com/pbaille/dewey/internal/hierarchy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Every section shares the same descriptions so tests don't depend on which one is picked.
func fullHierarchy(t *testing.T) *hierarchy.Hierarchy {
	t.Helper()

	entries := make([]domain.HierarchyEntry, 0, 1000)
	for i := 0; i < 1000; i++ {
		code := fmt.Sprintf("%03d", i)
		entries = append(entries, domain.HierarchyEntry{
			SectionCode:         code,
			DivisionCode:        hierarchy.DivisionOf(code),
			ClassCode:           hierarchy.ClassOf(code),
			ClassDescription:    "Technology",
			DivisionDescription: "Agriculture",
			SectionDescription:  "Garden crops (Horticulture)",
		})
	}

	h, err := hierarchy.New(entries)
	require.NoError(t, err)
	return h
}

func newTestServer(t *testing.T, at time.Time) *Server {
	t.Helper()

	svc, err := daily.NewService(fullHierarchy(t), zap.NewNop())
	require.NoError(t, err)

	s := New(svc, ":0", zap.NewNop())
	s.now = func() time.Time { return at }
	return s
}

func get(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

var newYear = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDaily_CodesOnlyEarly(t *testing.T) {
	s := newTestServer(t, newYear.Add(3*time.Hour))

	rec, body := get(t, s, "/daily")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, map[string]string{
		"date":       "2024-01-01",
		"section":    "417",
		"division":   "410",
		"main_class": "400",
	}, body)
	assert.Equal(t, "public, max-age=21600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "Mon, 01 Jan 2024 09:00:00 GMT", rec.Header().Get("Expires"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestDaily_RootAlias(t *testing.T) {
	s := newTestServer(t, newYear.Add(18*time.Hour))

	rec, body := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Technology", body["main_class_description"])
	assert.Equal(t, "Agriculture", body["division_description"])
	assert.NotContains(t, body, "section_masked")
}

func TestDaily_Hints(t *testing.T) {
	s := newTestServer(t, newYear.Add(1*time.Hour))

	_, body := get(t, s, "/daily?hint=1")
	assert.Equal(t, "Technology", body["main_class_description"])
	assert.NotContains(t, body, "division_description")

	rec, body := get(t, s, "/daily?hint=3")
	assert.Equal(t, "G_____ c____ (H___________)", body["section_masked"])
	assert.NotContains(t, body, "section_description")
	assert.Equal(t, "public, max-age=82800", rec.Header().Get("Cache-Control"))
}

func TestDaily_FullNeverExposesRawSection(t *testing.T) {
	s := newTestServer(t, newYear.Add(1*time.Hour))

	for _, target := range []string{"/daily?full=1", "/daily?full=true&hint=1"} {
		rec, body := get(t, s, target)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "G_____ c____ (H___________)", body["section_masked"])
		assert.Equal(t, "Agriculture", body["division_description"])
		assert.NotContains(t, body, "section_description")
	}
}

func TestDaily_BadParams(t *testing.T) {
	s := newTestServer(t, newYear)

	for _, target := range []string{"/daily?hint=0", "/daily?hint=4", "/daily?hint=abc", "/daily?full=maybe"} {
		rec, body := get(t, s, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, newYear)

	rec, body := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2024-01-01T00:00:00Z", body["timestamp"])
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, newYear)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newTestServer(t, newYear)
	s.addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
