package models

import "time"

type GalleryImage struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	WorldID    int       `gorm:"index" json:"world_id"`
	UploadedBy int       `json:"uploaded_by"`
	URL        string    `gorm:"not null" json:"url"`
	Caption    string    `json:"caption"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateGalleryImageRequest struct {
	URL     string `json:"url" binding:"required,url"`
	Caption string `json:"caption"`
}
