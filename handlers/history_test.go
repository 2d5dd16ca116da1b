package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openkara/playtrack/database"
	"github.com/openkara/playtrack/metrics"
	"github.com/openkara/playtrack/repository"
)

func setupRouter(t *testing.T) (chi.Router, *repository.PlayRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	performers := repository.NewPerformerRepository(db)
	plays := repository.NewPlayRepository(db, performers)
	stats := repository.NewStatsRepository(db)

	historyHandler := &HistoryHandler{Plays: plays, Stats: stats, Performers: performers}
	playHandler := &PlayHandler{Plays: plays, Metrics: metrics.Noop{}}
	adminHandler := &AdminHistoryHandler{Plays: plays, Performers: performers}

	r := chi.NewRouter()
	r.Get("/api/history", historyHandler.GetHistory)
	r.Get("/api/history/top-songs", historyHandler.GetTopSongs)
	r.Get("/api/history/top-performers", historyHandler.GetTopPerformers)
	r.Post("/api/plays", playHandler.RecordPlay)
	r.Get("/api/admin/history", adminHandler.GetAdminHistory)
	r.Put("/api/admin/plays/{play_id}", adminHandler.UpdatePlay)
	r.Post("/api/admin/aliases", adminHandler.SetAlias)
	r.Delete("/api/admin/aliases/{alias}", adminHandler.RemoveAlias)
	return r, plays
}

func doRequest(t *testing.T, router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecordPlay_ThenHistoryListsIt(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/plays",
		`{"song": "Don't Stop Believin'", "performer": "alice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/plays status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/history status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		TotalCount int64 `json:"total_count"`
		LastPlays  []struct {
			Song          string `json:"song"`
			CanonicalName string `json:"canonical_name"`
		} `json:"last_plays"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode history response: %v", err)
	}
	if resp.TotalCount != 1 || len(resp.LastPlays) != 1 {
		t.Fatalf("history = %+v, want one play", resp)
	}
	if resp.LastPlays[0].CanonicalName != "alice" {
		t.Errorf("canonical name = %q, want %q", resp.LastPlays[0].CanonicalName, "alice")
	}
}

func TestRecordPlay_MissingFields(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/plays", `{"song": "No Performer"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetTopSongs_InvalidPeriodIsRejected(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/history/top-songs?period=period_typo", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp APIErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Code != "invalid_period" {
		t.Errorf("error response = %+v, want invalid_period", resp)
	}
}

func TestGetTopSongs_ValidPeriod(t *testing.T) {
	router, _ := setupRouter(t)

	doRequest(t, router, http.MethodPost, "/api/plays", `{"song": "X", "performer": "alice"}`)

	rec := doRequest(t, router, http.MethodGet, "/api/history/top-songs?period=day", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var songs []repository.SongCount
	if err := json.Unmarshal(rec.Body.Bytes(), &songs); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(songs) != 1 || songs[0].Song != "X" {
		t.Errorf("songs = %+v, want [{X 1}]", songs)
	}
}

func TestUpdatePlay_MissingPlayIs404(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/api/admin/plays/9999", `{"song": "New Title"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAliasEndpoints_RoundTrip(t *testing.T) {
	router, plays := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/admin/aliases",
		`{"alias": "al", "canonical": "alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST alias status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	// recording under the alias must land on the canonical identity
	doRequest(t, router, http.MethodPost, "/api/plays", `{"song": "X", "performer": "al"}`)
	got, err := plays.ListByPerformer("alice", "")
	if err != nil {
		t.Fatalf("ListByPerformer() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("plays for alice = %d, want 1", len(got))
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/admin/aliases/al", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE alias status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestGetTopPerformers_ReturnsTotals(t *testing.T) {
	router, _ := setupRouter(t)

	doRequest(t, router, http.MethodPost, "/api/plays", `{"song": "A", "performer": "alice"}`)
	doRequest(t, router, http.MethodPost, "/api/plays", `{"song": "B", "performer": "bob"}`)

	rec := doRequest(t, router, http.MethodGet, "/api/history/top-performers?limit=1&offset=0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Performers []repository.PerformerCount `json:"performers"`
		TotalCount int64                       `json:"total_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalCount != 2 {
		t.Errorf("total_count = %d, want 2", resp.TotalCount)
	}
	if len(resp.Performers) != 1 {
		t.Errorf("page size = %d, want 1", len(resp.Performers))
	}
}
