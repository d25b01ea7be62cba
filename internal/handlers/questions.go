package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/models"
	"github.com/paracosm-app/backend/internal/notify"
)

type QuestionHandler struct {
	db       *gorm.DB
	notifier *notify.Notifier
}

func NewQuestionHandler(db *gorm.DB, notifier *notify.Notifier) *QuestionHandler {
	return &QuestionHandler{db: db, notifier: notifier}
}

func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	worldID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid world id"})
		return
	}

	var questions []models.Question
	err := h.db.Where("world_id = ?", worldID).
		Preload("Author").
		Order("score desc, created_at desc").
		Find(&questions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
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

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var world models.World
	if err := h.db.First(&world, worldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}

	question := models.Question{
		WorldID:  world.ID,
		AuthorID: authorID,
		Title:    input.Title,
		Body:     input.Body,
	}
	if err := h.db.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	h.db.Preload("Author").First(&question, question.ID)
	c.JSON(http.StatusCreated, question)
}

// GetQuestion returns one question with its answers.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question id"})
		return
	}

	var question models.Question
	if err := h.db.Preload("Author").First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	var answers []models.Answer
	if err := h.db.Where("question_id = ?", question.ID).Preload("Author").Order("created_at asc").Find(&answers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}
	if answers == nil {
		answers = []models.Answer{}
	}

	c.JSON(http.StatusOK, gin.H{
		"question": question,
		"answers":  answers,
	})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question id"})
		return
	}
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	var world models.World
	if err := h.db.First(&world, question.WorldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}
	if question.AuthorID != userID && world.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own questions"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetQuestion, question.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

func (h *QuestionHandler) CreateAnswer(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question id"})
		return
	}
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	answer := models.Answer{
		QuestionID: question.ID,
		AuthorID:   authorID,
		Body:       input.Body,
	}
	if err := h.db.Create(&answer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create answer"})
		return
	}

	if question.AuthorID != authorID {
		h.notifier.Notify(question.AuthorID, models.NotifyNewAnswer,
			"Your question \""+question.Title+"\" has a new answer", &question.WorldID)
	}

	h.db.Preload("Author").First(&answer, answer.ID)
	c.JSON(http.StatusCreated, answer)
}

func (h *QuestionHandler) GetAnswers(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question id"})
		return
	}

	var answers []models.Answer
	err := h.db.Where("question_id = ?", questionID).
		Preload("Author").
		Order("created_at asc").
		Find(&answers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	c.JSON(http.StatusOK, answers)
}
