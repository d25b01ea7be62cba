package models

import "time"

// Notification kinds.
const (
	NotifyInvite      = "invite"
	NotifyScrollCanon = "scroll_canon"
	NotifyNewAnswer   = "new_answer"
)

type Notification struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"index" json:"user_id"`
	Kind      string    `gorm:"size:32" json:"kind"`
	Message   string    `json:"message"`
	WorldID   *int      `json:"world_id,omitempty"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
