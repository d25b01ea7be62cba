package models

import "time"

type World struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Description  string `json:"description"`
	Genre        string `json:"genre"`
	CoverImage   string `json:"cover_image"`
	CreatorID    int    `json:"creator_id"`
	Creator      User   `gorm:"foreignKey:CreatorID" json:"creator"`
	ShareToken   string `gorm:"uniqueIndex" json:"share_token"`
	ForkedFromID *int   `json:"forked_from_id,omitempty"`

	Laws  []Law  `json:"laws,omitempty"`
	Roles []Role `json:"roles,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Law is a rule of a world. Position orders laws for display.
type Law struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	WorldID   int       `gorm:"index" json:"world_id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `json:"body"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Role struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	WorldID     int       `gorm:"index" json:"world_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateWorldRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	CoverImage  string `json:"cover_image"`
}
