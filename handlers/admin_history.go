package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openkara/playtrack/importer"
	"github.com/openkara/playtrack/models"
	"github.com/openkara/playtrack/repository"
)

// AdminHistoryHandler serves the administrative history views: the full
// filterable play list, play correction, alias management and log import
type AdminHistoryHandler struct {
	Plays      repository.PlayRepositoryInterface
	Performers repository.PerformerRepositoryInterface
	Importer   *importer.PlayLogImporter
	PlayLog    string
}

type adminHistoryResponse struct {
	Plays              []models.Play  `json:"plays"`
	Aliases            []models.Alias `json:"aliases"`
	DistinctPerformers []string       `json:"distinct_performers"`
	DistinctDates      []string       `json:"distinct_dates"`
	DistinctSongs      []string       `json:"distinct_songs"`
	Warning            string         `json:"warning,omitempty"`
}

// GetAdminHistory assembles the admin page data: the unpaginated play list
// for the selected performer/date plus aliases and the filter option lists.
// Failures degrade to empty defaults with a warning.
func (ah *AdminHistoryHandler) GetAdminHistory(w http.ResponseWriter, r *http.Request) {
	performerFilter := r.URL.Query().Get("performer")
	dateFilter := r.URL.Query().Get("date")

	resp, err := ah.buildAdminHistory(performerFilter, dateFilter)
	if err != nil {
		log.Printf("Error loading admin history data: %v", err)
		resp = &adminHistoryResponse{
			Plays:              []models.Play{},
			Aliases:            []models.Alias{},
			DistinctPerformers: []string{},
			DistinctDates:      []string{},
			DistinctSongs:      []string{},
			Warning:            "Error loading admin history data",
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (ah *AdminHistoryHandler) buildAdminHistory(performerFilter, dateFilter string) (*adminHistoryResponse, error) {
	plays, err := ah.Plays.ListByPerformer(performerFilter, dateFilter)
	if err != nil {
		return nil, err
	}
	aliases, err := ah.Performers.ListAliases()
	if err != nil {
		return nil, err
	}
	distinctPerformers, err := ah.Performers.DistinctNames()
	if err != nil {
		return nil, err
	}
	distinctDates, err := ah.Plays.DistinctDates()
	if err != nil {
		return nil, err
	}
	distinctSongs, err := ah.Plays.DistinctSongs()
	if err != nil {
		return nil, err
	}

	return &adminHistoryResponse{
		Plays:              plays,
		Aliases:            aliases,
		DistinctPerformers: distinctPerformers,
		DistinctDates:      distinctDates,
		DistinctSongs:      distinctSongs,
	}, nil
}

// UpdatePlay corrects the performer and/or song of an existing play
func (ah *AdminHistoryHandler) UpdatePlay(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "play_id")
	playID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid play ID format")
		return
	}

	var req struct {
		Performer string `json:"performer"`
		Song      string `json:"song"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Performer) == "" && strings.TrimSpace(req.Song) == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_field", "Nothing to update: provide performer and/or song")
		return
	}

	affected, err := ah.Plays.Update(playID, req.Performer, req.Song)
	if err != nil {
		log.Printf("Error updating play %d: %v", playID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update play")
		return
	}
	if affected == 0 {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Play not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"updated": affected})
}

// SetAlias creates or reassigns an alias for a canonical performer
func (ah *AdminHistoryHandler) SetAlias(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Alias     string `json:"alias"`
		Canonical string `json:"canonical"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Alias) == "" || strings.TrimSpace(req.Canonical) == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_field", "Missing required fields: alias, canonical")
		return
	}

	if err := ah.Performers.SetAlias(req.Alias, req.Canonical); err != nil {
		log.Printf("Error setting alias '%s' -> '%s': %v", req.Alias, req.Canonical, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to set alias")
		return
	}

	writeJSON(w, http.StatusOK, models.Alias{Alias: req.Alias, CanonicalName: req.Canonical})
}

// RemoveAlias deletes an alias; removing an unknown alias succeeds
func (ah *AdminHistoryHandler) RemoveAlias(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")
	if alias == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_field", "Missing alias")
		return
	}

	if err := ah.Performers.RemoveAlias(alias); err != nil {
		log.Printf("Error removing alias '%s': %v", alias, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to remove alias")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAliases retrieves all alias mappings
func (ah *AdminHistoryHandler) ListAliases(w http.ResponseWriter, r *http.Request) {
	aliases, err := ah.Performers.ListAliases()
	if err != nil {
		log.Printf("Error listing aliases: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve aliases")
		return
	}
	if aliases == nil {
		aliases = []models.Alias{}
	}
	writeJSON(w, http.StatusOK, aliases)
}

// ImportPlayLog triggers an import of the configured play log and returns
// the run summary
func (ah *AdminHistoryHandler) ImportPlayLog(w http.ResponseWriter, r *http.Request) {
	summary, err := ah.Importer.ImportFromLog(ah.PlayLog)
	if err != nil {
		log.Printf("Error importing play log %s: %v", ah.PlayLog, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to import play log")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
