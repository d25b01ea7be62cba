package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/cache"
	"github.com/paracosm-app/backend/internal/live"
	"github.com/paracosm-app/backend/internal/models"
	"github.com/paracosm-app/backend/internal/threading"
)

type BoardHandler struct {
	db       *gorm.DB
	hub      *live.Hub
	profiles *cache.Profiles
}

func NewBoardHandler(db *gorm.DB, hub *live.Hub, profiles *cache.Profiles) *BoardHandler {
	return &BoardHandler{db: db, hub: hub, profiles: profiles}
}

func (h *BoardHandler) GetPosts(c *gin.Context) {
	worldID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
		return
	}

	var posts []models.BoardPost
	err := h.db.Where("world_id = ?", worldID).
		Preload("Author").
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	if posts == nil {
		posts = []models.BoardPost{}
	}
	c.JSON(http.StatusOK, posts)
}

func (h *BoardHandler) GetPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var post models.BoardPost
	if err := h.db.Preload("Author").First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *BoardHandler) CreatePost(c *gin.Context) {
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

	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	var world models.World
	if err := h.db.First(&world, worldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}

	post := models.BoardPost{
		WorldID:  world.ID,
		AuthorID: authorID,
		Title:    input.Title,
		Body:     input.Body,
	}
	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	h.db.Preload("Author").First(&post, post.ID)
	h.hub.Broadcast(live.Event{Kind: "post_created", WorldID: world.ID, Payload: post})
	c.JSON(http.StatusCreated, post)
}

func (h *BoardHandler) UpdatePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.BoardPost
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Body != "" {
		post.Body = input.Body
	}

	h.db.Save(&post)
	h.db.Preload("Author").First(&post, post.ID)
	c.JSON(http.StatusOK, post)
}

// DeletePost removes a post with its comments and votes (author, or the
// world's creator).
func (h *BoardHandler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var post models.BoardPost
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var world models.World
	if err := h.db.First(&world, post.WorldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}
	if post.AuthorID != userID && world.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []int
		if err := tx.Model(&models.BoardComment{}).Where("post_id = ?", post.ID).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("target_kind = ? AND target_id IN ?", models.TargetBoardComment, commentIDs).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.BoardComment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetBoardPost, post.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		log.Error().Err(err).Int("post_id", post.ID).Msg("post delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	h.hub.Broadcast(live.Event{Kind: "post_deleted", WorldID: world.ID, Payload: gin.H{"id": post.ID}})
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// GetComments returns the post's comments as a nested reply tree. Roots
// are newest first, replies oldest first at every depth.
func (h *BoardHandler) GetComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var comments []models.BoardComment
	if err := h.db.Where("post_id = ?", postID).Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	// Authors come from the bounded profile cache instead of a join per
	// request; comment lists repeat the same handful of users.
	for i := range comments {
		author, found, err := h.profiles.Get(comments[i].AuthorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment authors"})
			return
		}
		if found {
			comments[i].Author = author
		}
	}

	tree := threading.Build(comments)
	if tree == nil {
		tree = []*threading.Node{}
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":         tree,
		"max_reply_depth":  threading.MaxReplyDepth,
		"max_indent_depth": threading.MaxIndentDepth,
	})
}

func (h *BoardHandler) CreateComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.BoardPost
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if input.ParentCommentID != nil {
		var parent models.BoardComment
		if err := h.db.Where("id = ? AND post_id = ?", *input.ParentCommentID, post.ID).First(&parent).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment does not belong to this post"})
			return
		}

		var flat []models.BoardComment
		if err := h.db.Where("post_id = ?", post.ID).Find(&flat).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
			return
		}
		if threading.Depth(flat, parent.ID)+1 > threading.MaxReplyDepth {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum reply depth reached"})
			return
		}
	}

	comment := models.BoardComment{
		PostID:          post.ID,
		AuthorID:        authorID,
		Body:            input.Body,
		ParentCommentID: input.ParentCommentID,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&post).UpdateColumn("comments", gorm.Expr("comments + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	h.db.Preload("Author").First(&comment, comment.ID)
	h.hub.Broadcast(live.Event{Kind: "comment_created", WorldID: post.WorldID, Payload: comment})
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment hard-deletes a comment (author or world creator). Its
// replies are re-parented to the deleted comment's parent so the thread
// stays readable; its votes go with it.
func (h *BoardHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var comment models.BoardComment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var post models.BoardPost
	if err := h.db.First(&post, comment.PostID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var world models.World
	if err := h.db.First(&world, post.WorldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}
	if comment.AuthorID != userID && world.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BoardComment{}).
			Where("parent_comment_id = ?", comment.ID).
			Update("parent_comment_id", comment.ParentCommentID).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetBoardComment, comment.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&post).UpdateColumn("comments", gorm.Expr("comments - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	h.hub.Broadcast(live.Event{Kind: "comment_deleted", WorldID: post.WorldID, Payload: gin.H{"id": comment.ID}})
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
