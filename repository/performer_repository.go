package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openkara/playtrack/models"
)

// PerformerRepository handles database operations for Performer and Alias
// entities, most importantly resolving arbitrary input names to canonical ones
type PerformerRepository struct {
	DB *gorm.DB
}

// NewPerformerRepository creates a new instance of PerformerRepository
func NewPerformerRepository(db *gorm.DB) *PerformerRepository {
	return &PerformerRepository{DB: db}
}

// Resolve maps a name to its canonical performer. Alias lookup takes
// precedence; otherwise the name is its own canonical identity and a
// performer row is created if one does not exist yet. The insert uses
// ON CONFLICT DO NOTHING so two racing resolutions of the same name never
// surface a uniqueness error.
func (r *PerformerRepository) Resolve(name string) (string, error) {
	var alias models.Alias
	err := r.DB.First(&alias, "alias = ?", name).Error
	if err == nil {
		return alias.CanonicalName, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to look up alias for %s: %w", name, err)
	}

	err = r.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Performer{Name: name}).Error
	if err != nil {
		return "", fmt.Errorf("failed to ensure performer %s: %w", name, err)
	}
	return name, nil
}

// SetAlias creates or reassigns an alias to a canonical performer. The
// canonical performer is created if missing so the alias row never points at
// a nonexistent identity; the alias row itself is a last-write-wins upsert.
func (r *PerformerRepository) SetAlias(alias, canonicalName string) error {
	err := r.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Performer{Name: canonicalName}).Error
	if err != nil {
		return fmt.Errorf("failed to ensure performer %s: %w", canonicalName, err)
	}

	err = r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "alias"}},
		DoUpdates: clause.AssignmentColumns([]string{"canonical_name"}),
	}).Create(&models.Alias{Alias: alias, CanonicalName: canonicalName}).Error
	if err != nil {
		return fmt.Errorf("failed to set alias %s -> %s: %w", alias, canonicalName, err)
	}
	return nil
}

// RemoveAlias deletes an alias, releasing the name to resolve as itself.
// Deleting an absent alias is not an error.
func (r *PerformerRepository) RemoveAlias(alias string) error {
	err := r.DB.Where("alias = ?", alias).Delete(&models.Alias{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove alias %s: %w", alias, err)
	}
	return nil
}

// ListAliases retrieves all alias mappings
func (r *PerformerRepository) ListAliases() ([]models.Alias, error) {
	var aliases []models.Alias
	err := r.DB.Find(&aliases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	return aliases, nil
}

// DistinctNames retrieves every known performer name, canonical and alias
// alike, deduplicated and ordered
func (r *PerformerRepository) DistinctNames() ([]string, error) {
	var names []string
	err := r.DB.Raw(`
		SELECT name FROM performers
		UNION
		SELECT alias FROM aliases
		ORDER BY 1
	`).Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct performer names: %w", err)
	}
	return names, nil
}
