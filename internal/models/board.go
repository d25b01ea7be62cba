package models

import "time"

// BoardPost is a community discussion post inside a world. Score is the
// denormalized vote balance; Comments the denormalized comment count.
type BoardPost struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	WorldID   int       `gorm:"index" json:"world_id"`
	AuthorID  int       `json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `json:"body"`
	Score     int       `gorm:"default:0" json:"score"`
	Comments  int       `gorm:"default:0" json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BoardComment struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	PostID          int       `gorm:"index" json:"post_id"`
	AuthorID        int       `json:"author_id"`
	Author          User      `gorm:"foreignKey:AuthorID" json:"author"`
	Body            string    `gorm:"not null" json:"body"`
	ParentCommentID *int      `json:"parent_comment_id,omitempty"`
	Score           int       `gorm:"default:0" json:"score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

type CreateCommentRequest struct {
	Body            string `json:"body" binding:"required"`
	ParentCommentID *int   `json:"parent_comment_id,omitempty"`
}
