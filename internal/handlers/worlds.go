package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/models"
	"github.com/paracosm-app/backend/internal/notify"
)

type WorldHandler struct {
	db       *gorm.DB
	notifier *notify.Notifier
}

func NewWorldHandler(db *gorm.DB, notifier *notify.Notifier) *WorldHandler {
	return &WorldHandler{db: db, notifier: notifier}
}

// isWorldCreator reports whether userID created the world, which governs
// canonization, law/role editing and world deletion.
func (h *WorldHandler) isWorldCreator(worldID, userID int) bool {
	var world models.World
	if err := h.db.First(&world, worldID).Error; err != nil {
		return false
	}
	return world.CreatorID == userID
}

func (h *WorldHandler) GetWorlds(c *gin.Context) {
	var worlds []models.World
	if err := h.db.Preload("Creator").Order("created_at desc").Find(&worlds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch worlds"})
		return
	}
	if worlds == nil {
		worlds = []models.World{}
	}
	c.JSON(http.StatusOK, worlds)
}

func (h *WorldHandler) GetWorld(c *gin.Context) {
	worldID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
		return
	}

	var world models.World
	err := h.db.Preload("Creator").
		Preload("Laws", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Roles").
		First(&world, worldID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}

	c.JSON(http.StatusOK, world)
}

func (h *WorldHandler) CreateWorld(c *gin.Context) {
	var input models.CreateWorldRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creatorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	world := models.World{
		Name:        input.Name,
		Description: input.Description,
		Genre:       input.Genre,
		CoverImage:  input.CoverImage,
		CreatorID:   creatorID,
		ShareToken:  uuid.NewString(),
	}

	if err := h.db.Create(&world).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create world"})
		return
	}

	h.db.Preload("Creator").First(&world, world.ID)
	c.JSON(http.StatusCreated, world)
}

func (h *WorldHandler) UpdateWorld(c *gin.Context) {
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

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Genre       string `json:"genre"`
		CoverImage  string `json:"cover_image"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var world models.World
	if err := h.db.First(&world, worldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}
	if world.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the world creator can edit it"})
		return
	}

	if input.Name != "" {
		world.Name = input.Name
	}
	if input.Description != "" {
		world.Description = input.Description
	}
	if input.Genre != "" {
		world.Genre = input.Genre
	}
	if input.CoverImage != "" {
		world.CoverImage = input.CoverImage
	}

	h.db.Save(&world)
	c.JSON(http.StatusOK, world)
}

func (h *WorldHandler) DeleteWorld(c *gin.Context) {
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

	var world models.World
	if err := h.db.First(&world, worldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}
	if world.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the world creator can delete it"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.Law{}, &models.Role{}, &models.Inhabitant{},
			&models.Scroll{}, &models.MapPin{}, &models.GalleryImage{},
		} {
			if err := tx.Where("world_id = ?", world.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&world).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete world"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "World deleted successfully"})
}

// ForkWorld seeds a new world from an existing one: laws and roles are
// copied, lineage is recorded, content (scrolls, boards, map) is not.
func (h *WorldHandler) ForkWorld(c *gin.Context) {
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

	var input struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var source models.World
	if err := h.db.Preload("Laws").Preload("Roles").First(&source, worldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}

	name := input.Name
	if name == "" {
		name = source.Name + " (fork)"
	}

	fork := models.World{
		Name:         name,
		Description:  source.Description,
		Genre:        source.Genre,
		CoverImage:   source.CoverImage,
		CreatorID:    userID,
		ShareToken:   uuid.NewString(),
		ForkedFromID: &source.ID,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&fork).Error; err != nil {
			return err
		}
		for _, law := range source.Laws {
			copied := models.Law{WorldID: fork.ID, Title: law.Title, Body: law.Body, Position: law.Position}
			if err := tx.Create(&copied).Error; err != nil {
				return err
			}
		}
		for _, role := range source.Roles {
			copied := models.Role{WorldID: fork.ID, Name: role.Name, Description: role.Description}
			if err := tx.Create(&copied).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int("world_id", source.ID).Msg("fork failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fork world"})
		return
	}

	h.db.Preload("Laws").Preload("Roles").First(&fork, fork.ID)
	c.JSON(http.StatusCreated, fork)
}

func (h *WorldHandler) JoinWorld(c *gin.Context) {
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

	var input struct {
		RoleID *int `json:"role_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var world models.World
	if err := h.db.First(&world, worldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}

	if input.RoleID != nil {
		var role models.Role
		if err := h.db.Where("id = ? AND world_id = ?", *input.RoleID, world.ID).First(&role).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role does not belong to this world"})
			return
		}
	}

	var existing models.Inhabitant
	if err := h.db.Where("world_id = ? AND user_id = ?", world.ID, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already an inhabitant of this world"})
		return
	}

	inhabitant := models.Inhabitant{WorldID: world.ID, UserID: userID, RoleID: input.RoleID}
	if err := h.db.Create(&inhabitant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join world"})
		return
	}

	h.db.Preload("User").Preload("Role").First(&inhabitant, inhabitant.ID)
	c.JSON(http.StatusCreated, inhabitant)
}

func (h *WorldHandler) LeaveWorld(c *gin.Context) {
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

	res := h.db.Where("world_id = ? AND user_id = ?", worldID, userID).Delete(&models.Inhabitant{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave world"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not an inhabitant of this world"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left world"})
}

func (h *WorldHandler) GetInhabitants(c *gin.Context) {
	worldID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
		return
	}

	var inhabitants []models.Inhabitant
	err := h.db.Where("world_id = ?", worldID).
		Preload("User").Preload("Role").
		Order("joined_at asc").
		Find(&inhabitants).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inhabitants"})
		return
	}
	if inhabitants == nil {
		inhabitants = []models.Inhabitant{}
	}
	c.JSON(http.StatusOK, inhabitants)
}

// InviteUser notifies another user about a world (in-app, plus SMS when
// configured).
func (h *WorldHandler) InviteUser(c *gin.Context) {
	worldID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
		return
	}
	inviterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var world models.World
	if err := h.db.First(&world, worldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}

	var inviter, invitee models.User
	if err := h.db.First(&inviter, inviterID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	if err := h.db.First(&invitee, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invited user not found"})
		return
	}

	if err := h.notifier.Invite(invitee, world, inviter.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send invite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invite sent"})
}
