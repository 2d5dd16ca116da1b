package models

// Alias maps an alternate spelling of a performer name to its canonical
// identity. The alias string is the primary key, so each alternate name
// points at exactly one canonical performer; reassigning an alias is an
// upsert on this row.
type Alias struct {
	Alias         string `gorm:"primaryKey" json:"alias"`
	CanonicalName string `gorm:"not null;index" json:"canonical_name"`
}

// TableName explicitly sets the table name for GORM.
func (Alias) TableName() string {
	return "aliases"
}
