package repository

import (
	"github.com/openkara/playtrack/models"
)

// PerformerRepositoryInterface defines the methods for performer identity
// and alias resolution
type PerformerRepositoryInterface interface {
	Resolve(name string) (string, error)
	SetAlias(alias, canonicalName string) error
	RemoveAlias(alias string) error
	ListAliases() ([]models.Alias, error)
	DistinctNames() ([]string, error)
}

// PlayRepositoryInterface defines the methods for the play ledger and
// row-level play queries
type PlayRepositoryInterface interface {
	Record(song, performer string, duration *float64, completed bool) (*models.Play, error)
	Update(playID int64, performer, song string) (int64, error)
	LastPlays(limit, offset int, dateFilter, performerFilter string) ([]models.Play, error)
	Count(dateFilter, performerFilter string) (int64, error)
	ListByPerformer(performer, dateFilter string) ([]models.Play, error)
	ExistsAt(timestamp, canonicalName, song string) (bool, error)
	Insert(play *models.Play) error
	DistinctDates() ([]string, error)
	DistinctSongs() ([]string, error)
}

// StatsRepositoryInterface defines the aggregate queries over the play ledger
type StatsRepositoryInterface interface {
	TopSongs(limit int) ([]SongCount, error)
	TopPerformers(limit, offset int, sortBy, sortOrder string) ([]PerformerCount, error)
	TopPerformersCount() (int64, error)
	TopSongsByPeriod(period string, limit int) ([]SongCount, error)
}
