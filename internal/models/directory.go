package models

import "time"

// DirectoryEntry maps a player's nickname to the canonical game log URL
// found on the site's player index.
type DirectoryEntry struct {
	Nickname  string    `gorm:"primaryKey;size:128" json:"nickname"`
	Name      string    `gorm:"not null" json:"name"`
	URL       string    `gorm:"not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (DirectoryEntry) TableName() string {
	return "player_directory"
}
