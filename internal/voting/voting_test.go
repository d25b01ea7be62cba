package voting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paracosm-app/backend/internal/models"
)

// memStore keeps the ledger and scores in maps. InTx is a plain call:
// transition logic, not transactionality, is under test here.
type memStore struct {
	votes  map[[3]interface{}]*models.Vote
	scores map[[2]interface{}]int
	nextID int
}

func newMemStore() *memStore {
	return &memStore{
		votes:  map[[3]interface{}]*models.Vote{},
		scores: map[[2]interface{}]int{},
	}
}

func (m *memStore) setScore(kind string, targetID, score int) {
	m.scores[[2]interface{}{kind, targetID}] = score
}

func (m *memStore) FindVote(_ context.Context, voterID int, kind string, targetID int) (*models.Vote, error) {
	v, ok := m.votes[[3]interface{}{voterID, kind, targetID}]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *memStore) CreateVote(_ context.Context, v *models.Vote) error {
	m.nextID++
	v.ID = m.nextID
	cp := *v
	m.votes[[3]interface{}{v.UserID, v.TargetKind, v.TargetID}] = &cp
	return nil
}

func (m *memStore) UpdateVote(_ context.Context, v *models.Vote) error {
	cp := *v
	m.votes[[3]interface{}{v.UserID, v.TargetKind, v.TargetID}] = &cp
	return nil
}

func (m *memStore) DeleteVote(_ context.Context, v *models.Vote) error {
	delete(m.votes, [3]interface{}{v.UserID, v.TargetKind, v.TargetID})
	return nil
}

func (m *memStore) AdjustScore(_ context.Context, kind string, targetID int, delta int) (int, error) {
	key := [2]interface{}{kind, targetID}
	if _, ok := m.scores[key]; !ok {
		return 0, ErrTargetNotFound
	}
	m.scores[key] += delta
	return m.scores[key], nil
}

func (m *memStore) InTx(_ context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *memStore) rowCount() int { return len(m.votes) }

func TestCastFirstUpvote(t *testing.T) {
	store := newMemStore()
	store.setScore(models.TargetQuestion, 1, 10)
	ledger := NewLedger(store)

	score, state, err := ledger.Cast(context.Background(), 5, models.TargetQuestion, 1, Up)
	require.NoError(t, err)
	assert.Equal(t, 11, score)
	assert.Equal(t, Upvoted, state)
	assert.Equal(t, 1, store.rowCount())
}

func TestCastFirstDownvote(t *testing.T) {
	store := newMemStore()
	store.setScore(models.TargetBoardPost, 3, 0)
	ledger := NewLedger(store)

	score, state, err := ledger.Cast(context.Background(), 5, models.TargetBoardPost, 3, Down)
	require.NoError(t, err)
	assert.Equal(t, -1, score)
	assert.Equal(t, Downvoted, state)
}

func TestCastToggleOff(t *testing.T) {
	store := newMemStore()
	store.setScore(models.TargetQuestion, 1, 10)
	ledger := NewLedger(store)
	ctx := context.Background()

	_, _, err := ledger.Cast(ctx, 5, models.TargetQuestion, 1, Up)
	require.NoError(t, err)

	score, state, err := ledger.Cast(ctx, 5, models.TargetQuestion, 1, Up)
	require.NoError(t, err)
	assert.Equal(t, 10, score, "toggle-off returns score to original")
	assert.Equal(t, NoVote, state)
	assert.Equal(t, 0, store.rowCount(), "ledger row deleted on toggle-off")
}

func TestCastFlip(t *testing.T) {
	store := newMemStore()
	store.setScore(models.TargetQuestion, 1, 10)
	ledger := NewLedger(store)
	ctx := context.Background()

	_, _, err := ledger.Cast(ctx, 5, models.TargetQuestion, 1, Up)
	require.NoError(t, err)

	score, state, err := ledger.Cast(ctx, 5, models.TargetQuestion, 1, Down)
	require.NoError(t, err)
	assert.Equal(t, 8, score, "flip moves score by 2")
	assert.Equal(t, Downvoted, state)
	assert.Equal(t, 1, store.rowCount(), "flip keeps a single row")
}

// Full walk from the design notes: score 10, A upvotes (11), A upvotes
// again (10), A downvotes (9), A upvotes (11).
func TestCastScenarioSingleVoter(t *testing.T) {
	store := newMemStore()
	store.setScore(models.TargetBoardPost, 7, 10)
	ledger := NewLedger(store)
	ctx := context.Background()

	steps := []struct {
		direction int
		score     int
		state     State
	}{
		{Up, 11, Upvoted},
		{Up, 10, NoVote},
		{Down, 9, Downvoted},
		{Up, 11, Upvoted},
	}
	for i, step := range steps {
		score, state, err := ledger.Cast(ctx, 1, models.TargetBoardPost, 7, step.direction)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.score, score, "step %d", i)
		assert.Equal(t, step.state, state, "step %d", i)
	}
}

func TestCastAlternatingTransitions(t *testing.T) {
	store := newMemStore()
	store.setScore(models.TargetQuestion, 9, 100)
	ledger := NewLedger(store)
	ctx := context.Background()

	score, state, err := ledger.Cast(ctx, 2, models.TargetQuestion, 9, Up)
	require.NoError(t, err)
	assert.Equal(t, 101, score)
	assert.Equal(t, Upvoted, state)

	score, state, err = ledger.Cast(ctx, 2, models.TargetQuestion, 9, Down)
	require.NoError(t, err)
	assert.Equal(t, 99, score)
	assert.Equal(t, Downvoted, state)

	score, state, err = ledger.Cast(ctx, 2, models.TargetQuestion, 9, Down)
	require.NoError(t, err)
	assert.Equal(t, 100, score)
	assert.Equal(t, NoVote, state)
}

func TestCastTwoVotersIndependent(t *testing.T) {
	store := newMemStore()
	store.setScore(models.TargetBoardComment, 4, 0)
	ledger := NewLedger(store)
	ctx := context.Background()

	_, _, err := ledger.Cast(ctx, 1, models.TargetBoardComment, 4, Up)
	require.NoError(t, err)
	score, _, err := ledger.Cast(ctx, 2, models.TargetBoardComment, 4, Up)
	require.NoError(t, err)

	assert.Equal(t, 2, score)
	assert.Equal(t, 2, store.rowCount(), "two distinct ledger rows")
}

func TestCastRejectsBadInput(t *testing.T) {
	ledger := NewLedger(newMemStore())
	ctx := context.Background()

	_, _, err := ledger.Cast(ctx, 1, models.TargetQuestion, 1, 0)
	assert.ErrorIs(t, err, ErrBadDirection)

	_, _, err = ledger.Cast(ctx, 1, "scroll", 1, Up)
	assert.ErrorIs(t, err, ErrUnknownTargetKind)
}

func TestCastMissingTarget(t *testing.T) {
	ledger := NewLedger(newMemStore())

	_, _, err := ledger.Cast(context.Background(), 1, models.TargetQuestion, 404, Up)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestStateReads(t *testing.T) {
	store := newMemStore()
	store.setScore(models.TargetQuestion, 1, 0)
	ledger := NewLedger(store)
	ctx := context.Background()

	state, err := ledger.State(ctx, 5, models.TargetQuestion, 1)
	require.NoError(t, err)
	assert.Equal(t, NoVote, state, "missing row is NoVote, not an error")

	_, _, err = ledger.Cast(ctx, 5, models.TargetQuestion, 1, Down)
	require.NoError(t, err)

	state, err = ledger.State(ctx, 5, models.TargetQuestion, 1)
	require.NoError(t, err)
	assert.Equal(t, Downvoted, state)
}
