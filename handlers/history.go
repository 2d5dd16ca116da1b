package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/openkara/playtrack/database"
	"github.com/openkara/playtrack/models"
	"github.com/openkara/playtrack/repository"
)

// HistoryHandler serves the public play-history views: recent plays, top
// songs, top performers and the per-period leaderboards
type HistoryHandler struct {
	Plays      repository.PlayRepositoryInterface
	Stats      repository.StatsRepositoryInterface
	Performers repository.PerformerRepositoryInterface
}

type historyResponse struct {
	LastPlays          []models.Play               `json:"last_plays"`
	TotalCount         int64                       `json:"total_count"`
	HasMore            bool                        `json:"has_more"`
	TopSongs           []repository.SongCount      `json:"top_songs"`
	TopSongsToday      []repository.SongCount      `json:"top_songs_today"`
	TopSongsMonth      []repository.SongCount      `json:"top_songs_month"`
	TopSongsYear       []repository.SongCount      `json:"top_songs_year"`
	TopPerformers      []repository.PerformerCount `json:"top_performers"`
	TopPerformersCount int64                       `json:"top_performers_count"`
	DistinctPerformers []string                    `json:"distinct_performers"`
	DistinctDates      []string                    `json:"distinct_dates"`
	Warning            string                      `json:"warning,omitempty"`
}

// GetHistory assembles the history page data in one response: paginated
// recent plays with filters, the leaderboards and the filter option lists.
// On a storage failure it degrades to empty defaults with a warning instead
// of failing the page.
func (hh *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)
	dateFilter := r.URL.Query().Get("date")
	performerFilter := r.URL.Query().Get("performer")

	performersLimit := queryInt(r, "performers_limit", 10)
	performersOffset := queryInt(r, "performers_offset", 0)
	performersSort := r.URL.Query().Get("performers_sort")
	performersOrder := r.URL.Query().Get("performers_order")

	resp, err := hh.buildHistory(limit, offset, dateFilter, performerFilter,
		performersLimit, performersOffset, performersSort, performersOrder)
	if err != nil {
		log.Printf("Error loading history data: %v", err)
		resp = &historyResponse{
			LastPlays:          []models.Play{},
			TopSongs:           []repository.SongCount{},
			TopSongsToday:      []repository.SongCount{},
			TopSongsMonth:      []repository.SongCount{},
			TopSongsYear:       []repository.SongCount{},
			TopPerformers:      []repository.PerformerCount{},
			DistinctPerformers: []string{},
			DistinctDates:      []string{},
			Warning:            "Error loading history data",
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (hh *HistoryHandler) buildHistory(limit, offset int, dateFilter, performerFilter string,
	performersLimit, performersOffset int, performersSort, performersOrder string) (*historyResponse, error) {

	// fetch one extra row to learn whether another page exists
	lastPlays, err := hh.Plays.LastPlays(limit+1, offset, dateFilter, performerFilter)
	if err != nil {
		return nil, err
	}
	hasMore := len(lastPlays) > limit
	if hasMore {
		lastPlays = lastPlays[:limit]
	}

	totalCount, err := hh.Plays.Count(dateFilter, performerFilter)
	if err != nil {
		return nil, err
	}

	topSongs, err := hh.Stats.TopSongs(10)
	if err != nil {
		return nil, err
	}
	topSongsToday, err := hh.Stats.TopSongsByPeriod(database.PeriodDay, 10)
	if err != nil {
		return nil, err
	}
	topSongsMonth, err := hh.Stats.TopSongsByPeriod(database.PeriodMonth, 10)
	if err != nil {
		return nil, err
	}
	topSongsYear, err := hh.Stats.TopSongsByPeriod(database.PeriodYear, 10)
	if err != nil {
		return nil, err
	}

	topPerformers, err := hh.Stats.TopPerformers(performersLimit, performersOffset, performersSort, performersOrder)
	if err != nil {
		return nil, err
	}
	topPerformersCount, err := hh.Stats.TopPerformersCount()
	if err != nil {
		return nil, err
	}

	distinctPerformers, err := hh.Performers.DistinctNames()
	if err != nil {
		return nil, err
	}
	distinctDates, err := hh.Plays.DistinctDates()
	if err != nil {
		return nil, err
	}

	return &historyResponse{
		LastPlays:          lastPlays,
		TotalCount:         totalCount,
		HasMore:            hasMore,
		TopSongs:           topSongs,
		TopSongsToday:      topSongsToday,
		TopSongsMonth:      topSongsMonth,
		TopSongsYear:       topSongsYear,
		TopPerformers:      topPerformers,
		TopPerformersCount: topPerformersCount,
		DistinctPerformers: distinctPerformers,
		DistinctDates:      distinctDates,
	}, nil
}

// GetTopSongs serves the top-songs leaderboard. With a period query
// parameter it narrows to the current day, month or year; an unrecognized
// period is a 400, not an empty list.
func (hh *HistoryHandler) GetTopSongs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	period := r.URL.Query().Get("period")

	var songs []repository.SongCount
	var err error
	if period == "" {
		songs, err = hh.Stats.TopSongs(limit)
	} else {
		songs, err = hh.Stats.TopSongsByPeriod(period, limit)
	}
	if err != nil {
		if errors.Is(err, database.ErrInvalidPeriod) {
			WriteAPIError(w, http.StatusBadRequest, "invalid_period", err.Error())
			return
		}
		log.Printf("Error listing top songs: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve top songs")
		return
	}
	if songs == nil {
		songs = []repository.SongCount{}
	}
	writeJSON(w, http.StatusOK, songs)
}

// GetTopPerformers serves the paginated, sortable performer leaderboard
func (hh *HistoryHandler) GetTopPerformers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)
	sortBy := r.URL.Query().Get("sort")
	sortOrder := r.URL.Query().Get("order")

	performers, err := hh.Stats.TopPerformers(limit, offset, sortBy, sortOrder)
	if err != nil {
		log.Printf("Error listing top performers: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve top performers")
		return
	}
	totalCount, err := hh.Stats.TopPerformersCount()
	if err != nil {
		log.Printf("Error counting top performers: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve top performers")
		return
	}
	if performers == nil {
		performers = []repository.PerformerCount{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"performers":  performers,
		"total_count": totalCount,
	})
}
