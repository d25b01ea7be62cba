package models

import "time"

// Question is a world-scoped Q&A entry. Score is the denormalized vote
// balance maintained by the voting ledger, never recomputed on read.
type Question struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	WorldID   int       `gorm:"index" json:"world_id"`
	AuthorID  int       `json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `json:"body"`
	Score     int       `gorm:"default:0" json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Answer struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	QuestionID int       `gorm:"index" json:"question_id"`
	AuthorID   int       `json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	Body       string    `gorm:"not null" json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateQuestionRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}
