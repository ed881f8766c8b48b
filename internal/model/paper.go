package model

import "time"

// Paper is immutable once imported; the only allowed mutation is deletion.
type Paper struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkspaceID uint      `gorm:"not null;index" json:"workspace_id"`
	Title       string    `gorm:"size:512;not null" json:"title"`
	Authors     string    `gorm:"size:1024" json:"authors"`
	Abstract    string    `gorm:"type:text" json:"abstract"`
	FullText    string    `gorm:"type:longtext" json:"-"` // empty when extraction failed
	Date        string    `gorm:"size:16" json:"date"`    // YYYY-MM-DD as reported by the source
	URL         string    `gorm:"size:512" json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}
