package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/models"
)

type MapHandler struct {
	db *gorm.DB
}

func NewMapHandler(db *gorm.DB) *MapHandler {
	return &MapHandler{db: db}
}

func (h *MapHandler) GetPins(c *gin.Context) {
	worldID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
		return
	}

	var pins []models.MapPin
	if err := h.db.Where("world_id = ?", worldID).Order("created_at asc").Find(&pins).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch map pins"})
		return
	}
	if pins == nil {
		pins = []models.MapPin{}
	}
	c.JSON(http.StatusOK, pins)
}

func (h *MapHandler) CreatePin(c *gin.Context) {
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

	var input models.CreateMapPinRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Label is required and coordinates must be within [0,1]"})
		return
	}

	var world models.World
	if err := h.db.First(&world, worldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}

	pin := models.MapPin{
		WorldID:     world.ID,
		CreatedBy:   userID,
		Label:       input.Label,
		Description: input.Description,
		X:           input.X,
		Y:           input.Y,
	}
	if err := h.db.Create(&pin).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create map pin"})
		return
	}

	c.JSON(http.StatusCreated, pin)
}

func (h *MapHandler) UpdatePin(c *gin.Context) {
	pinID, ok := pathID(c, "pinId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pin id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var pin models.MapPin
	if err := h.db.First(&pin, pinID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pin not found"})
		return
	}
	if pin.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own pins"})
		return
	}

	var input struct {
		Label       string   `json:"label"`
		Description string   `json:"description"`
		X           *float64 `json:"x" binding:"omitempty,min=0,max=1"`
		Y           *float64 `json:"y" binding:"omitempty,min=0,max=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Label != "" {
		pin.Label = input.Label
	}
	if input.Description != "" {
		pin.Description = input.Description
	}
	if input.X != nil {
		pin.X = *input.X
	}
	if input.Y != nil {
		pin.Y = *input.Y
	}

	h.db.Save(&pin)
	c.JSON(http.StatusOK, pin)
}

func (h *MapHandler) DeletePin(c *gin.Context) {
	pinID, ok := pathID(c, "pinId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pin id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var pin models.MapPin
	if err := h.db.First(&pin, pinID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pin not found"})
		return
	}

	var world models.World
	if err := h.db.First(&world, pin.WorldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}
	if pin.CreatedBy != userID && world.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own pins"})
		return
	}

	if err := h.db.Delete(&pin).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pin deleted successfully"})
}
