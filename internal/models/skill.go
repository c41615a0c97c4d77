package models

import "time"

// Skill is a deduplicated skill name in the catalog. Skills are created
// lazily the first time any user declares one and are never deleted.
type Skill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	Category  string    `gorm:"size:100" json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Skill) TableName() string {
	return "skills"
}
