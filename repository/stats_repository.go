package repository

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/openkara/playtrack/database"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// SongCount is a song title with its completed play count
type SongCount struct {
	Song  string `json:"song"`
	Count int64  `json:"count"`
}

// PerformerCount is a canonical performer name with its completed play count
type PerformerCount struct {
	CanonicalName string `json:"canonical_name"`
	Count         int64  `json:"count"`
}

// StatsRepository answers aggregate queries over the play ledger. Sort and
// period inputs come from query strings; they only ever reach SQL through
// the fixed lookup tables in the database package.
type StatsRepository struct {
	DB *gorm.DB
}

// NewStatsRepository creates a new instance of StatsRepository
func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// TopSongs counts completed plays grouped by song, most played first
func (r *StatsRepository) TopSongs(limit int) ([]SongCount, error) {
	queryBuilder := psql.Select("song", "COUNT(*) AS count").
		From("plays").
		Where(sq.Eq{"completed": true}).
		GroupBy("song").
		OrderBy("count DESC").
		Limit(uint64(limit))

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for TopSongs: %w", err)
	}

	var songs []SongCount
	if err := r.DB.Raw(sqlStr, args...).Scan(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to query top songs: %w", err)
	}
	return songs, nil
}

// TopPerformers counts completed plays grouped by canonical performer,
// sorted and paginated. Invalid sort inputs fall back to count descending.
func (r *StatsRepository) TopPerformers(limit, offset int, sortBy, sortOrder string) ([]PerformerCount, error) {
	queryBuilder := psql.Select("canonical_name", "COUNT(*) AS count").
		From("plays").
		Where(sq.Eq{"completed": true}).
		GroupBy("canonical_name").
		OrderBy(database.SortClause(sortBy, sortOrder)).
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for TopPerformers: %w", err)
	}

	var performers []PerformerCount
	if err := r.DB.Raw(sqlStr, args...).Scan(&performers).Error; err != nil {
		return nil, fmt.Errorf("failed to query top performers: %w", err)
	}
	return performers, nil
}

// TopPerformersCount returns the number of distinct performers with at least
// one completed play, for pagination math
func (r *StatsRepository) TopPerformersCount() (int64, error) {
	queryBuilder := psql.Select("COUNT(DISTINCT canonical_name)").
		From("plays").
		Where(sq.Eq{"completed": true})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for TopPerformersCount: %w", err)
	}

	var count int64
	if err := r.DB.Raw(sqlStr, args...).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count top performers: %w", err)
	}
	return count, nil
}

// TopSongsByPeriod counts completed plays within the current day, month or
// year, grouped by song. An unrecognized period is rejected with
// database.ErrInvalidPeriod.
func (r *StatsRepository) TopSongsByPeriod(period string, limit int) ([]SongCount, error) {
	format, err := database.PeriodFormat(period)
	if err != nil {
		return nil, err
	}

	queryBuilder := psql.Select("song", "COUNT(*) AS count").
		From("plays").
		Where("strftime(?, timestamp) = strftime(?, 'now')", format, format).
		Where(sq.Eq{"completed": true}).
		GroupBy("song").
		OrderBy("count DESC").
		Limit(uint64(limit))

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for TopSongsByPeriod: %w", err)
	}

	var songs []SongCount
	if err := r.DB.Raw(sqlStr, args...).Scan(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to query top songs for period %s: %w", period, err)
	}
	return songs, nil
}
