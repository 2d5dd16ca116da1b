package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/openkara/playtrack/models"
)

// PlayRepository handles database operations for Play entities. Performer
// name input always passes through the performer repository, so recording or
// filtering by an alias lands on the canonical identity's history.
type PlayRepository struct {
	DB         *gorm.DB
	Performers PerformerRepositoryInterface
}

// NewPlayRepository creates a new instance of PlayRepository
func NewPlayRepository(db *gorm.DB, performers PerformerRepositoryInterface) *PlayRepository {
	return &PlayRepository{DB: db, Performers: performers}
}

// playFilter narrows a plays query to an exact calendar day and/or an
// already-resolved canonical performer name. Empty values leave the query
// unfiltered.
func playFilter(canonicalName, dateFilter string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if canonicalName != "" {
			tx = tx.Where("canonical_name = ?", canonicalName)
		}
		if dateFilter != "" {
			tx = tx.Where("date(timestamp) = ?", dateFilter)
		}
		return tx
	}
}

// resolveFilter resolves a performer filter, passing empty input through
func (r *PlayRepository) resolveFilter(performerFilter string) (string, error) {
	if performerFilter == "" {
		return "", nil
	}
	return r.Performers.Resolve(performerFilter)
}

// Record appends a play for the resolved canonical performer, stamped with
// the current time
func (r *PlayRepository) Record(song, performer string, duration *float64, completed bool) (*models.Play, error) {
	canonicalName, err := r.Performers.Resolve(performer)
	if err != nil {
		return nil, err
	}

	play := models.Play{
		Timestamp:     time.Now().UTC().Format(models.TimeLayout),
		CanonicalName: canonicalName,
		Song:          song,
		Duration:      duration,
		Completed:     completed,
	}
	if err := r.DB.Create(&play).Error; err != nil {
		return nil, fmt.Errorf("failed to record play of %s by %s: %w", song, canonicalName, err)
	}
	return &play, nil
}

// Update corrects the performer and/or song of an existing play. Empty
// arguments leave the corresponding field untouched; a provided performer is
// re-resolved first. Returns the number of rows affected so callers can tell
// an update of a missing play apart from a successful one.
func (r *PlayRepository) Update(playID int64, performer, song string) (int64, error) {
	updates := map[string]interface{}{}

	if performer != "" {
		canonicalName, err := r.Performers.Resolve(performer)
		if err != nil {
			return 0, err
		}
		updates["canonical_name"] = canonicalName
	}
	if song != "" {
		updates["song"] = song
	}
	if len(updates) == 0 {
		return 0, nil
	}

	result := r.DB.Model(&models.Play{}).Where("id = ?", playID).Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update play ID %d: %w", playID, result.Error)
	}
	return result.RowsAffected, nil
}

// LastPlays retrieves plays ordered by timestamp descending, filtered and
// paginated
func (r *PlayRepository) LastPlays(limit, offset int, dateFilter, performerFilter string) ([]models.Play, error) {
	canonicalName, err := r.resolveFilter(performerFilter)
	if err != nil {
		return nil, err
	}

	var plays []models.Play
	err = r.DB.Scopes(playFilter(canonicalName, dateFilter)).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&plays).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list last plays: %w", err)
	}
	return plays, nil
}

// Count returns the number of plays matching the same filter predicate used
// by LastPlays, for pagination math
func (r *PlayRepository) Count(dateFilter, performerFilter string) (int64, error) {
	canonicalName, err := r.resolveFilter(performerFilter)
	if err != nil {
		return 0, err
	}

	var count int64
	err = r.DB.Model(&models.Play{}).
		Scopes(playFilter(canonicalName, dateFilter)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return count, nil
}

// ListByPerformer retrieves the full play history for a resolved performer
// and/or date, newest first. An empty performer returns all plays subject
// only to the date filter.
func (r *PlayRepository) ListByPerformer(performer, dateFilter string) ([]models.Play, error) {
	canonicalName, err := r.resolveFilter(performer)
	if err != nil {
		return nil, err
	}

	var plays []models.Play
	err = r.DB.Scopes(playFilter(canonicalName, dateFilter)).
		Order("timestamp DESC").
		Find(&plays).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list plays for performer %s: %w", performer, err)
	}
	return plays, nil
}

// ExistsAt reports whether a play with the exact timestamp, canonical
// performer and song is already recorded. Used by the importer for
// idempotent re-imports.
func (r *PlayRepository) ExistsAt(timestamp, canonicalName, song string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Play{}).
		Where("timestamp = ? AND canonical_name = ? AND song = ?", timestamp, canonicalName, song).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check for existing play: %w", err)
	}
	return count > 0, nil
}

// Insert appends an already-resolved play row as-is. Unlike Record it keeps
// the caller's timestamp; the importer uses it to preserve log event times.
func (r *PlayRepository) Insert(play *models.Play) error {
	if err := r.DB.Create(play).Error; err != nil {
		return fmt.Errorf("failed to insert play of %s by %s: %w", play.Song, play.CanonicalName, err)
	}
	return nil
}

// DistinctDates retrieves all calendar dates on which any play occurred,
// descending
func (r *PlayRepository) DistinctDates() ([]string, error) {
	var dates []string
	err := r.DB.Raw(`SELECT DISTINCT date(timestamp) AS date FROM plays ORDER BY date DESC`).
		Scan(&dates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct play dates: %w", err)
	}
	return dates, nil
}

// DistinctSongs retrieves all distinct song titles ever played, ascending
func (r *PlayRepository) DistinctSongs() ([]string, error) {
	var songs []string
	err := r.DB.Model(&models.Play{}).
		Distinct().
		Order("song ASC").
		Pluck("song", &songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct songs: %w", err)
	}
	return songs, nil
}
