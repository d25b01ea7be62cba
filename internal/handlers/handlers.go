package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/cache"
	"github.com/paracosm-app/backend/internal/config"
	"github.com/paracosm-app/backend/internal/live"
	"github.com/paracosm-app/backend/internal/notify"
	"github.com/paracosm-app/backend/internal/voting"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	World        *WorldHandler
	Scroll       *ScrollHandler
	Question     *QuestionHandler
	Board        *BoardHandler
	Vote         *VoteHandler
	Map          *MapHandler
	Gallery      *GalleryHandler
	Notification *NotificationHandler
	User         *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *config.Config, hub *live.Hub) (*Handler, error) {
	profiles, err := cache.NewProfiles(db, 0)
	if err != nil {
		return nil, err
	}

	ledger := voting.NewLedger(voting.NewGormStore(db))
	notifier := notify.New(db, cfg)

	return &Handler{
		Auth:         NewAuthHandler(db, cfg),
		World:        NewWorldHandler(db, notifier),
		Scroll:       NewScrollHandler(db, notifier),
		Question:     NewQuestionHandler(db, notifier),
		Board:        NewBoardHandler(db, hub, profiles),
		Vote:         NewVoteHandler(ledger),
		Map:          NewMapHandler(db),
		Gallery:      NewGalleryHandler(db),
		Notification: NewNotificationHandler(db),
		User:         NewUserHandler(db, profiles),
	}, nil
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
