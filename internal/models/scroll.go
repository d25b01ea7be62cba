package models

import "time"

// Scroll statuses. A scroll starts pending and becomes canon or rejected
// by decision of the world's creator.
const (
	ScrollPending  = "pending"
	ScrollCanon    = "canon"
	ScrollRejected = "rejected"
)

type Scroll struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	WorldID   int       `gorm:"index" json:"world_id"`
	AuthorID  int       `json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"not null" json:"body"`
	Status    string    `gorm:"default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateScrollRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}
