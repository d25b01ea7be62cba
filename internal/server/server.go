package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/paracosm-app/backend/internal/config"
	"github.com/paracosm-app/backend/internal/database"
	"github.com/paracosm-app/backend/internal/handlers"
	"github.com/paracosm-app/backend/internal/live"
	"github.com/paracosm-app/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
	hub     *live.Hub
	cfg     *config.Config
}

// NewServer creates and configures a new server
func NewServer(cfg *config.Config) (*http.Server, error) {
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	hub := live.NewHub()

	handler, err := handlers.NewHandler(db.GetDB(), cfg, hub)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	newServer := &Server{
		db:      db,
		handler: handler,
		hub:     hub,
		cfg:     cfg,
	}

	router := newServer.RegisterRoutes()

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Live board feed (public, read-only)
	r.GET("/ws/worlds/:id", func(c *gin.Context) {
		worldID, err := strconv.Atoi(c.Param("id"))
		if err != nil || worldID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
			return
		}
		s.hub.ServeWS(c, worldID)
	})

	secret := []byte(s.cfg.Auth.JWTSecret)
	voteLimiter := middleware.NewRateLimiter(rate.Limit(2), 5)

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// World routes (public reads)
		api.GET("/worlds", s.handler.World.GetWorlds)
		api.GET("/worlds/:id", s.handler.World.GetWorld)
		api.GET("/worlds/:id/inhabitants", s.handler.World.GetInhabitants)
		api.GET("/worlds/:id/scrolls", s.handler.Scroll.GetScrolls)
		api.GET("/worlds/:id/questions", s.handler.Question.GetQuestions)
		api.GET("/worlds/:id/posts", s.handler.Board.GetPosts)
		api.GET("/worlds/:id/pins", s.handler.Map.GetPins)
		api.GET("/worlds/:id/gallery", s.handler.Gallery.GetImages)

		api.GET("/questions/:id", s.handler.Question.GetQuestion)
		api.GET("/questions/:id/answers", s.handler.Question.GetAnswers)

		api.GET("/posts/:id", s.handler.Board.GetPost)
		api.GET("/posts/:id/comments", s.handler.Board.GetComments)

		// User routes (public reads)
		api.GET("/users/:id", s.handler.User.GetUserProfile)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(secret))
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			protected.POST("/worlds", s.handler.World.CreateWorld)
			protected.PUT("/worlds/:id", s.handler.World.UpdateWorld)
			protected.DELETE("/worlds/:id", s.handler.World.DeleteWorld)
			protected.POST("/worlds/:id/fork", s.handler.World.ForkWorld)
			protected.POST("/worlds/:id/join", s.handler.World.JoinWorld)
			protected.DELETE("/worlds/:id/join", s.handler.World.LeaveWorld)
			protected.POST("/worlds/:id/invite", s.handler.World.InviteUser)

			protected.POST("/worlds/:id/laws", s.handler.World.CreateLaw)
			protected.PUT("/laws/:lawId", s.handler.World.UpdateLaw)
			protected.DELETE("/laws/:lawId", s.handler.World.DeleteLaw)
			protected.POST("/worlds/:id/roles", s.handler.World.CreateRole)
			protected.DELETE("/roles/:roleId", s.handler.World.DeleteRole)

			protected.POST("/worlds/:id/scrolls", s.handler.Scroll.CreateScroll)
			protected.PATCH("/scrolls/:id/status", s.handler.Scroll.UpdateScrollStatus)
			protected.DELETE("/scrolls/:id", s.handler.Scroll.DeleteScroll)

			protected.POST("/worlds/:id/questions", s.handler.Question.CreateQuestion)
			protected.DELETE("/questions/:id", s.handler.Question.DeleteQuestion)
			protected.POST("/questions/:id/answers", s.handler.Question.CreateAnswer)

			protected.POST("/worlds/:id/posts", s.handler.Board.CreatePost)
			protected.PUT("/posts/:id", s.handler.Board.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Board.DeletePost)
			protected.POST("/posts/:id/comments", s.handler.Board.CreateComment)
			protected.DELETE("/comments/:commentId", s.handler.Board.DeleteComment)

			protected.GET("/votes", s.handler.Vote.GetVote)
			protected.POST("/votes", voteLimiter.Middleware(), s.handler.Vote.CastVote)

			protected.POST("/worlds/:id/pins", s.handler.Map.CreatePin)
			protected.PUT("/pins/:pinId", s.handler.Map.UpdatePin)
			protected.DELETE("/pins/:pinId", s.handler.Map.DeletePin)

			protected.POST("/worlds/:id/gallery", s.handler.Gallery.CreateImage)
			protected.DELETE("/gallery/:imageId", s.handler.Gallery.DeleteImage)

			protected.GET("/notifications", s.handler.Notification.GetNotifications)
			protected.POST("/notifications/:id/read", s.handler.Notification.MarkRead)

			protected.PUT("/users/:id", s.handler.User.UpdateUserProfile)
		}
	}

	return r
}
