package voting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/paracosm-app/backend/internal/models"
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
		&models.Question{},
		&models.BoardPost{},
		&models.BoardComment{},
		&models.Vote{},
	))
	return db
}

func TestGormStoreLedgerRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	question := models.Question{WorldID: 1, AuthorID: 1, Title: "Who forged the first law?", Score: 10}
	require.NoError(t, db.Create(&question).Error)

	ledger := NewLedger(NewGormStore(db))

	score, state, err := ledger.Cast(ctx, 1, models.TargetQuestion, question.ID, Up)
	require.NoError(t, err)
	assert.Equal(t, 11, score)
	assert.Equal(t, Upvoted, state)

	score, state, err = ledger.Cast(ctx, 1, models.TargetQuestion, question.ID, Down)
	require.NoError(t, err)
	assert.Equal(t, 8, score)
	assert.Equal(t, Downvoted, state)

	score, state, err = ledger.Cast(ctx, 1, models.TargetQuestion, question.ID, Down)
	require.NoError(t, err)
	assert.Equal(t, 10, score)
	assert.Equal(t, NoVote, state)

	var count int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var stored models.Question
	require.NoError(t, db.First(&stored, question.ID).Error)
	assert.Equal(t, 10, stored.Score, "denormalized score matches the ledger")
}

func TestGormStoreTwoVoters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	post := models.BoardPost{WorldID: 1, AuthorID: 1, Title: "Settlement layout", Score: 0}
	require.NoError(t, db.Create(&post).Error)

	ledger := NewLedger(NewGormStore(db))

	_, _, err := ledger.Cast(ctx, 1, models.TargetBoardPost, post.ID, Up)
	require.NoError(t, err)
	score, _, err := ledger.Cast(ctx, 2, models.TargetBoardPost, post.ID, Up)
	require.NoError(t, err)
	assert.Equal(t, 2, score)

	var count int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestGormStoreCommentScores(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	comment := models.BoardComment{PostID: 1, AuthorID: 1, Body: "The river should run north", Score: 0}
	require.NoError(t, db.Create(&comment).Error)

	ledger := NewLedger(NewGormStore(db))

	score, state, err := ledger.Cast(ctx, 3, models.TargetBoardComment, comment.ID, Down)
	require.NoError(t, err)
	assert.Equal(t, -1, score)
	assert.Equal(t, Downvoted, state)

	state, err = ledger.State(ctx, 3, models.TargetBoardComment, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, Downvoted, state)
}

func TestGormStoreMissingTarget(t *testing.T) {
	db := setupTestDB(t)

	ledger := NewLedger(NewGormStore(db))
	_, _, err := ledger.Cast(context.Background(), 1, models.TargetQuestion, 999999, Up)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}
