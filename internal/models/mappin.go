package models

import "time"

// MapPin marks a point of interest on a world's map. Coordinates are
// normalized to [0,1] so the client can scale them to any viewport.
type MapPin struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	WorldID     int       `gorm:"index" json:"world_id"`
	CreatedBy   int       `json:"created_by"`
	Label       string    `gorm:"not null" json:"label"`
	Description string    `json:"description"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateMapPinRequest struct {
	Label       string  `json:"label" binding:"required"`
	Description string  `json:"description"`
	X           float64 `json:"x" binding:"min=0,max=1"`
	Y           float64 `json:"y" binding:"min=0,max=1"`
}
