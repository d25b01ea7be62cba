package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paracosm-app/backend/internal/models"
)

// Laws and roles are editable by the world creator only.

func (h *WorldHandler) CreateLaw(c *gin.Context) {
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
	if !h.isWorldCreator(worldID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the world creator can edit laws"})
		return
	}

	var input struct {
		Title    string `json:"title" binding:"required"`
		Body     string `json:"body"`
		Position int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	law := models.Law{WorldID: worldID, Title: input.Title, Body: input.Body, Position: input.Position}
	if err := h.db.Create(&law).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create law"})
		return
	}

	c.JSON(http.StatusCreated, law)
}

func (h *WorldHandler) UpdateLaw(c *gin.Context) {
	lawID, ok := pathID(c, "lawId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid law id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var law models.Law
	if err := h.db.First(&law, lawID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Law not found"})
		return
	}
	if !h.isWorldCreator(law.WorldID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the world creator can edit laws"})
		return
	}

	var input struct {
		Title    string `json:"title"`
		Body     string `json:"body"`
		Position *int   `json:"position"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != "" {
		law.Title = input.Title
	}
	if input.Body != "" {
		law.Body = input.Body
	}
	if input.Position != nil {
		law.Position = *input.Position
	}

	h.db.Save(&law)
	c.JSON(http.StatusOK, law)
}

func (h *WorldHandler) DeleteLaw(c *gin.Context) {
	lawID, ok := pathID(c, "lawId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid law id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var law models.Law
	if err := h.db.First(&law, lawID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Law not found"})
		return
	}
	if !h.isWorldCreator(law.WorldID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the world creator can edit laws"})
		return
	}

	if err := h.db.Delete(&law).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete law"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Law deleted successfully"})
}

func (h *WorldHandler) CreateRole(c *gin.Context) {
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
	if !h.isWorldCreator(worldID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the world creator can edit roles"})
		return
	}

	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role{WorldID: worldID, Name: input.Name, Description: input.Description}
	if err := h.db.Create(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role"})
		return
	}

	c.JSON(http.StatusCreated, role)
}

func (h *WorldHandler) DeleteRole(c *gin.Context) {
	roleID, ok := pathID(c, "roleId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var role models.Role
	if err := h.db.First(&role, roleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	if !h.isWorldCreator(role.WorldID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the world creator can edit roles"})
		return
	}

	// Inhabitants holding this role keep their membership, roleless.
	h.db.Model(&models.Inhabitant{}).Where("role_id = ?", role.ID).Update("role_id", nil)

	if err := h.db.Delete(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role deleted successfully"})
}
