package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/models"
)

type GalleryHandler struct {
	db *gorm.DB
}

func NewGalleryHandler(db *gorm.DB) *GalleryHandler {
	return &GalleryHandler{db: db}
}

func (h *GalleryHandler) GetImages(c *gin.Context) {
	worldID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
		return
	}

	var images []models.GalleryImage
	if err := h.db.Where("world_id = ?", worldID).Order("created_at desc").Find(&images).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gallery"})
		return
	}
	if images == nil {
		images = []models.GalleryImage{}
	}
	c.JSON(http.StatusOK, images)
}

// CreateImage stores an image URL; hosting itself is external.
func (h *GalleryHandler) CreateImage(c *gin.Context) {
	worldID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateGalleryImageRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid image URL is required"})
		return
	}

	var world models.World
	if err := h.db.First(&world, worldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}

	image := models.GalleryImage{
		WorldID:    world.ID,
		UploadedBy: userID,
		URL:        input.URL,
		Caption:    input.Caption,
	}
	if err := h.db.Create(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add image"})
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *GalleryHandler) DeleteImage(c *gin.Context) {
	imageID, ok := pathID(c, "imageId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var image models.GalleryImage
	if err := h.db.First(&image, imageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	var world models.World
	if err := h.db.First(&world, image.WorldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}
	if image.UploadedBy != userID && world.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own images"})
		return
	}

	if err := h.db.Delete(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
