package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/paracosm-app/backend/internal/voting"
)

type VoteHandler struct {
	ledger *voting.Ledger
}

func NewVoteHandler(ledger *voting.Ledger) *VoteHandler {
	return &VoteHandler{ledger: ledger}
}

// GetVote returns the authenticated user's current stance on a target.
func (h *VoteHandler) GetVote(c *gin.Context) {
	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var query struct {
		TargetKind string `form:"target_kind" binding:"required"`
		TargetID   int    `form:"target_id" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_kind and target_id are required"})
		return
	}

	state, err := h.ledger.State(c.Request.Context(), voterID, query.TargetKind, query.TargetID)
	if err != nil {
		if errors.Is(err, voting.ErrUnknownTargetKind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown target kind"})
			return
		}
		log.Error().Err(err).Msg("vote state lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// CastVote applies one vote transition and returns the target's stored
// score for the client to display.
func (h *VoteHandler) CastVote(c *gin.Context) {
	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		TargetKind string `json:"target_kind" binding:"required"`
		TargetID   int    `json:"target_id" binding:"required"`
		Direction  int    `json:"direction" binding:"required,oneof=-1 1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Direction must be -1 or 1"})
		return
	}

	score, state, err := h.ledger.Cast(c.Request.Context(), voterID, input.TargetKind, input.TargetID, input.Direction)
	if err != nil {
		switch {
		case errors.Is(err, voting.ErrUnknownTargetKind), errors.Is(err, voting.ErrBadDirection):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, voting.ErrTargetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Vote target not found"})
		default:
			log.Error().Err(err).Int("voter_id", voterID).Msg("vote cast failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"score": score, "state": state})
}
