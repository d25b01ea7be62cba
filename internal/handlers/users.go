package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/cache"
	"github.com/paracosm-app/backend/internal/models"
)

type UserHandler struct {
	db       *gorm.DB
	profiles *cache.Profiles
}

func NewUserHandler(db *gorm.DB, profiles *cache.Profiles) *UserHandler {
	return &UserHandler{db: db, profiles: profiles}
}

// GetUserProfile returns a public profile, served through the bounded
// profile cache.
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, found, err := h.profiles.Get(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var worldCount int64
	h.db.Model(&models.World{}).Where("creator_id = ?", user.ID).Count(&worldCount)
	var inhabitedCount int64
	h.db.Model(&models.Inhabitant{}).Where("user_id = ?", user.ID).Count(&inhabitedCount)

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"bio":        user.Bio,
		"avatar":     user.Avatar,
		"worlds":     worldCount,
		"inhabiting": inhabitedCount,
		"created_at": user.CreatedAt,
	})
}

// UpdateUserProfile updates the caller's own profile.
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	if targetID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own profile"})
		return
	}

	var input struct {
		Bio    string `json:"bio"`
		Avatar string `json:"avatar"`
		Phone  string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	// Stale cached copy would outlive the edit otherwise.
	h.profiles.Invalidate(user.ID)

	c.JSON(http.StatusOK, user)
}
