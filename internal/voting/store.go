package voting

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/models"
)

// GormStore persists the ledger in postgres. The score column lives on a
// different table per target kind.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func scoreModel(kind string) (interface{}, error) {
	switch kind {
	case models.TargetQuestion:
		return &models.Question{}, nil
	case models.TargetBoardPost:
		return &models.BoardPost{}, nil
	case models.TargetBoardComment:
		return &models.BoardComment{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTargetKind, kind)
}

func (s *GormStore) FindVote(ctx context.Context, voterID int, kind string, targetID int) (*models.Vote, error) {
	var vote models.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", voterID, kind, targetID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (s *GormStore) CreateVote(ctx context.Context, v *models.Vote) error {
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *GormStore) UpdateVote(ctx context.Context, v *models.Vote) error {
	return s.db.WithContext(ctx).Save(v).Error
}

func (s *GormStore) DeleteVote(ctx context.Context, v *models.Vote) error {
	return s.db.WithContext(ctx).Delete(v).Error
}

// AdjustScore increments the target's score column in the store itself so
// concurrent casts never clobber each other's writes.
func (s *GormStore) AdjustScore(ctx context.Context, kind string, targetID int, delta int) (int, error) {
	model, err := scoreModel(kind)
	if err != nil {
		return 0, err
	}

	res := s.db.WithContext(ctx).Model(model).
		Where("id = ?", targetID).
		UpdateColumn("score", gorm.Expr("score + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrTargetNotFound
	}

	var score int
	err = s.db.WithContext(ctx).Model(model).
		Select("score").
		Where("id = ?", targetID).
		Scan(&score).Error
	if err != nil {
		return 0, err
	}
	return score, nil
}

func (s *GormStore) InTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
