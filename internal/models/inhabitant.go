package models

import "time"

// Inhabitant records a user's membership in a world under a role.
// At most one row per (world, user) pair.
type Inhabitant struct {
	ID       int       `gorm:"primaryKey" json:"id"`
	WorldID  int       `gorm:"uniqueIndex:idx_world_user" json:"world_id"`
	UserID   int       `gorm:"uniqueIndex:idx_world_user" json:"user_id"`
	RoleID   *int      `json:"role_id,omitempty"`
	User     User      `gorm:"foreignKey:UserID" json:"user"`
	Role     *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
