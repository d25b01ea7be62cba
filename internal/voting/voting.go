// Package voting keeps one live vote per (voter, target) pair and the
// target's denormalized score consistent with the ledger.
package voting

import (
	"context"
	"errors"
	"fmt"

	"github.com/paracosm-app/backend/internal/models"
)

// State of a (voter, target) pair.
type State string

const (
	NoVote    State = "none"
	Upvoted   State = "upvoted"
	Downvoted State = "downvoted"
)

// Vote directions.
const (
	Up   = 1
	Down = -1
)

var (
	ErrUnknownTargetKind = errors.New("unknown target kind")
	ErrBadDirection      = errors.New("direction must be 1 or -1")
	ErrTargetNotFound    = errors.New("vote target not found")
)

// Store is the persistence boundary for the ledger. FindVote returns
// (nil, nil) when no row exists; AdjustScore applies the delta as an
// atomic in-store increment and returns the stored score.
type Store interface {
	FindVote(ctx context.Context, voterID int, kind string, targetID int) (*models.Vote, error)
	CreateVote(ctx context.Context, v *models.Vote) error
	UpdateVote(ctx context.Context, v *models.Vote) error
	DeleteVote(ctx context.Context, v *models.Vote) error
	AdjustScore(ctx context.Context, kind string, targetID int, delta int) (int, error)
	InTx(ctx context.Context, fn func(Store) error) error
}

// Ledger applies vote state transitions.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// ValidKind reports whether kind names a votable target table.
func ValidKind(kind string) bool {
	switch kind {
	case models.TargetQuestion, models.TargetBoardPost, models.TargetBoardComment:
		return true
	}
	return false
}

// State returns the voter's current stance on a target. A missing ledger
// row is NoVote, not an error.
func (l *Ledger) State(ctx context.Context, voterID int, kind string, targetID int) (State, error) {
	if !ValidKind(kind) {
		return NoVote, fmt.Errorf("%w: %q", ErrUnknownTargetKind, kind)
	}
	v, err := l.store.FindVote(ctx, voterID, kind, targetID)
	if err != nil {
		return NoVote, fmt.Errorf("find vote: %w", err)
	}
	return stateOf(v), nil
}

// Cast applies exactly one transition for the voter's action and returns
// the target's stored score after the ledger and score writes, which run
// in a single transaction:
//
//	NoVote    --up--> Upvoted    (+1)    NoVote    --down--> Downvoted (-1)
//	Upvoted   --up--> NoVote     (-1)    Downvoted --down--> NoVote    (+1)
//	Upvoted   --down--> Downvoted (-2)   Downvoted --up--> Upvoted     (+2)
func (l *Ledger) Cast(ctx context.Context, voterID int, kind string, targetID, direction int) (int, State, error) {
	if direction != Up && direction != Down {
		return 0, NoVote, ErrBadDirection
	}
	if !ValidKind(kind) {
		return 0, NoVote, fmt.Errorf("%w: %q", ErrUnknownTargetKind, kind)
	}

	var (
		score int
		state State
	)
	err := l.store.InTx(ctx, func(s Store) error {
		existing, err := s.FindVote(ctx, voterID, kind, targetID)
		if err != nil {
			return fmt.Errorf("find vote: %w", err)
		}

		var delta int
		switch {
		case existing == nil:
			vote := &models.Vote{
				UserID:     voterID,
				TargetKind: kind,
				TargetID:   targetID,
				Direction:  direction,
			}
			if err := s.CreateVote(ctx, vote); err != nil {
				return fmt.Errorf("create vote: %w", err)
			}
			delta = direction
			state = directionState(direction)

		case existing.Direction == direction:
			// Repeating the same action toggles the vote off.
			if err := s.DeleteVote(ctx, existing); err != nil {
				return fmt.Errorf("delete vote: %w", err)
			}
			delta = -direction
			state = NoVote

		default:
			existing.Direction = direction
			if err := s.UpdateVote(ctx, existing); err != nil {
				return fmt.Errorf("update vote: %w", err)
			}
			delta = 2 * direction
			state = directionState(direction)
		}

		score, err = s.AdjustScore(ctx, kind, targetID, delta)
		if err != nil {
			return fmt.Errorf("adjust score: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, NoVote, err
	}
	return score, state, nil
}

func stateOf(v *models.Vote) State {
	if v == nil {
		return NoVote
	}
	return directionState(v.Direction)
}

func directionState(direction int) State {
	if direction == Up {
		return Upvoted
	}
	return Downvoted
}
