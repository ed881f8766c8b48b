package model

import "time"

// Chat is one turn of the workspace conversation log. The log is append-only;
// a row always carries both the user message and the model response.
type Chat struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkspaceID uint      `gorm:"not null;index" json:"workspace_id"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Response    string    `gorm:"type:text;not null" json:"response"`
	CreatedAt   time.Time `json:"timestamp"`
}
