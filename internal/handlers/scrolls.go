package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/models"
	"github.com/paracosm-app/backend/internal/notify"
)

type ScrollHandler struct {
	db       *gorm.DB
	notifier *notify.Notifier
}

func NewScrollHandler(db *gorm.DB, notifier *notify.Notifier) *ScrollHandler {
	return &ScrollHandler{db: db, notifier: notifier}
}

// GetScrolls returns a world's lore, optionally filtered by status.
func (h *ScrollHandler) GetScrolls(c *gin.Context) {
	worldID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
		return
	}

	q := h.db.Where("world_id = ?", worldID).Preload("Author").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var scrolls []models.Scroll
	if err := q.Find(&scrolls).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scrolls"})
		return
	}
	if scrolls == nil {
		scrolls = []models.Scroll{}
	}
	c.JSON(http.StatusOK, scrolls)
}

func (h *ScrollHandler) CreateScroll(c *gin.Context) {
	worldID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
		return
	}
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateScrollRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var world models.World
	if err := h.db.First(&world, worldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}

	scroll := models.Scroll{
		WorldID:  world.ID,
		AuthorID: authorID,
		Title:    input.Title,
		Body:     input.Body,
		Status:   models.ScrollPending,
	}
	if err := h.db.Create(&scroll).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create scroll"})
		return
	}

	h.db.Preload("Author").First(&scroll, scroll.ID)
	c.JSON(http.StatusCreated, scroll)
}

// UpdateScrollStatus canonizes or rejects a scroll (world creator only).
func (h *ScrollHandler) UpdateScrollStatus(c *gin.Context) {
	scrollID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scroll id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required,oneof=canon rejected pending"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be canon, rejected or pending"})
		return
	}

	var scroll models.Scroll
	if err := h.db.First(&scroll, scrollID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scroll not found"})
		return
	}

	var world models.World
	if err := h.db.First(&world, scroll.WorldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}
	if world.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the world creator can decide scroll status"})
		return
	}

	scroll.Status = input.Status
	if err := h.db.Save(&scroll).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update scroll"})
		return
	}

	if scroll.Status == models.ScrollCanon && scroll.AuthorID != userID {
		h.notifier.Notify(scroll.AuthorID, models.NotifyScrollCanon,
			"Your scroll \""+scroll.Title+"\" is now canon in "+world.Name, &world.ID)
	}

	c.JSON(http.StatusOK, scroll)
}

// DeleteScroll removes a scroll (author or world creator).
func (h *ScrollHandler) DeleteScroll(c *gin.Context) {
	scrollID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scroll id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var scroll models.Scroll
	if err := h.db.First(&scroll, scrollID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scroll not found"})
		return
	}

	var world models.World
	if err := h.db.First(&world, scroll.WorldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}
	if scroll.AuthorID != userID && world.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own scrolls"})
		return
	}

	if err := h.db.Delete(&scroll).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete scroll"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scroll deleted successfully"})
}
