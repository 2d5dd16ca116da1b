package models

// TimeLayout is the storage format for play timestamps. It matches SQLite's
// datetime('now') output so date() and strftime() comparisons work directly
// on the stored text. All timestamps are UTC.
const TimeLayout = "2006-01-02 15:04:05"

// Play is one recorded instance of a song being performed. Rows are
// append-only apart from administrative correction of the performer or the
// song title.
type Play struct {
	ID            int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp     string   `gorm:"not null;index" json:"timestamp"`
	CanonicalName string   `gorm:"not null;index" json:"canonical_name"`
	Song          string   `gorm:"not null" json:"song"`
	Duration      *float64 `json:"duration,omitempty"`
	Completed     bool     `gorm:"default:true" json:"completed"`

	// Relationships
	Performer *Performer `gorm:"foreignKey:CanonicalName;references:Name" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Play) TableName() string {
	return "plays"
}
