package models

// Performer is the canonical identity that owns play history. The name
// itself is the primary key; rows are created implicitly the first time an
// unrecognized name is resolved and are never deleted.
type Performer struct {
	Name string `gorm:"primaryKey" json:"name"`

	// Relationships
	Aliases []Alias `gorm:"foreignKey:CanonicalName;references:Name" json:"aliases,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Performer) TableName() string {
	return "performers"
}
