package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/paracosm-app/backend/internal/cache"
	"github.com/paracosm-app/backend/internal/live"
	"github.com/paracosm-app/backend/internal/models"
	"github.com/paracosm-app/backend/internal/threading"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("paracosm_test"),
		tcpostgres.WithUsername("paracosm"),
		tcpostgres.WithPassword("paracosm"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.World{},
		&models.BoardPost{},
		&models.BoardComment{},
		&models.Vote{},
	))
	return db
}

// boardRouter wires the board handler behind a stub auth middleware that
// trusts the X-Test-User header.
func boardRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	profiles, err := cache.NewProfiles(db, 0)
	require.NoError(t, err)
	handler := NewBoardHandler(db, live.NewHub(), profiles)

	r := gin.New()
	auth := func(c *gin.Context) {
		if id, err := strconv.Atoi(c.GetHeader("X-Test-User")); err == nil && id > 0 {
			c.Set("user_id", id)
		}
	}
	r.GET("/posts/:id/comments", handler.GetComments)
	r.POST("/posts/:id/comments", auth, handler.CreateComment)
	r.DELETE("/comments/:commentId", auth, handler.DeleteComment)
	return r
}

func seedPost(t *testing.T, db *gorm.DB) models.BoardPost {
	t.Helper()
	user := models.User{Username: "keeper", Email: "keeper@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	world := models.World{Name: "Emberfall", CreatorID: user.ID, ShareToken: "tok-emberfall"}
	require.NoError(t, db.Create(&world).Error)
	post := models.BoardPost{WorldID: world.ID, AuthorID: user.ID, Title: "First light"}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func postComment(t *testing.T, r *gin.Engine, postID, userID int, body string, parentID *int) *httptest.ResponseRecorder {
	t.Helper()
	payload := map[string]interface{}{"body": body}
	if parentID != nil {
		payload["parent_comment_id"] = *parentID
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/posts/%d/comments", postID), bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", fmt.Sprintf("%d", userID))
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndThreadComments(t *testing.T) {
	db := setupTestDB(t)
	r := boardRouter(t, db)
	post := seedPost(t, db)

	w := postComment(t, r, post.ID, 1, "root one", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var first models.BoardComment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = postComment(t, r, post.ID, 1, "reply", &first.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postComment(t, r, post.ID, 1, "root two", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Threaded read.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d/comments", post.ID), nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Comments []*threading.Node `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comments, 2)
	assert.Equal(t, "root two", resp.Comments[0].Body, "newest root first")
	require.Len(t, resp.Comments[1].Replies, 1)
	assert.Equal(t, "reply", resp.Comments[1].Replies[0].Body)

	// Denormalized comment count.
	var stored models.BoardPost
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, 3, stored.Comments)
}

func TestCreateCommentDepthGate(t *testing.T) {
	db := setupTestDB(t)
	r := boardRouter(t, db)
	post := seedPost(t, db)

	w := postComment(t, r, post.ID, 1, "depth 0", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var parent models.BoardComment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parent))

	for depth := 1; depth <= threading.MaxReplyDepth; depth++ {
		w = postComment(t, r, post.ID, 1, fmt.Sprintf("depth %d", depth), &parent.ID)
		require.Equal(t, http.StatusCreated, w.Code, "depth %d allowed", depth)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parent))
	}

	w = postComment(t, r, post.ID, 1, "one too deep", &parent.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCommentRejectsForeignParent(t *testing.T) {
	db := setupTestDB(t)
	r := boardRouter(t, db)
	post := seedPost(t, db)

	other := models.BoardPost{WorldID: post.WorldID, AuthorID: 1, Title: "Other thread"}
	require.NoError(t, db.Create(&other).Error)
	foreign := models.BoardComment{PostID: other.ID, AuthorID: 1, Body: "elsewhere"}
	require.NoError(t, db.Create(&foreign).Error)

	w := postComment(t, r, post.ID, 1, "cross-post reply", &foreign.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCommentReparentsReplies(t *testing.T) {
	db := setupTestDB(t)
	r := boardRouter(t, db)
	post := seedPost(t, db)

	w := postComment(t, r, post.ID, 1, "root", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var root models.BoardComment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))

	w = postComment(t, r, post.ID, 1, "middle", &root.ID)
	require.Equal(t, http.StatusCreated, w.Code)
	var middle models.BoardComment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &middle))

	w = postComment(t, r, post.ID, 1, "leaf", &middle.ID)
	require.Equal(t, http.StatusCreated, w.Code)
	var leaf models.BoardComment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leaf))

	// A vote on the middle comment should be cleaned up with it.
	vote := models.Vote{UserID: 1, TargetKind: models.TargetBoardComment, TargetID: middle.ID, Direction: 1}
	require.NoError(t, db.Create(&vote).Error)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/comments/%d", middle.ID), nil)
	req.Header.Set("X-Test-User", "1")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reparented models.BoardComment
	require.NoError(t, db.First(&reparented, leaf.ID).Error)
	require.NotNil(t, reparented.ParentCommentID)
	assert.Equal(t, root.ID, *reparented.ParentCommentID)

	var voteCount int64
	require.NoError(t, db.Model(&models.Vote{}).
		Where("target_kind = ? AND target_id = ?", models.TargetBoardComment, middle.ID).
		Count(&voteCount).Error)
	assert.Equal(t, int64(0), voteCount)
}

func TestDeleteCommentForbiddenForStranger(t *testing.T) {
	db := setupTestDB(t)
	r := boardRouter(t, db)
	post := seedPost(t, db)

	w := postComment(t, r, post.ID, 1, "root", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var root models.BoardComment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/comments/%d", root.ID), nil)
	req.Header.Set("X-Test-User", "99")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
