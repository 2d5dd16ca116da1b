package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/openkara/playtrack/metrics"
	"github.com/openkara/playtrack/repository"
)

// PlayHandler records new plays into the ledger
type PlayHandler struct {
	Plays   repository.PlayRepositoryInterface
	Metrics metrics.Recorder
}

func (ph *PlayHandler) RecordPlay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Song      string   `json:"song"`
		Performer string   `json:"performer"`
		Duration  *float64 `json:"duration"`
		Completed *bool    `json:"completed"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Song) == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_field", "Missing required field: song")
		return
	}
	if strings.TrimSpace(req.Performer) == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_field", "Missing required field: performer")
		return
	}

	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	play, err := ph.Plays.Record(req.Song, req.Performer, req.Duration, completed)
	if err != nil {
		log.Printf("Error recording play of '%s' by '%s': %v", req.Song, req.Performer, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to record play")
		return
	}
	ph.Metrics.PlayRecorded()

	writeJSON(w, http.StatusCreated, play)
}
