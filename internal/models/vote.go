package models

import "time"

// Vote target kinds. Each kind maps to the table holding the target's
// denormalized score.
const (
	TargetQuestion     = "question"
	TargetBoardPost    = "board_post"
	TargetBoardComment = "board_comment"
)

// Vote - tracks a user's current stance on a target. At most one live row
// per (user, target_kind, target_id).
type Vote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"uniqueIndex:idx_voter_target" json:"user_id"`
	TargetKind string    `gorm:"uniqueIndex:idx_voter_target;size:32" json:"target_kind"`
	TargetID   int       `gorm:"uniqueIndex:idx_voter_target" json:"target_id"`
	Direction  int       `json:"direction"` // 1 or -1
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
