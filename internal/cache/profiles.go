// Package cache provides a bounded, injected lookup cache for user
// profiles so list endpoints don't hit the users table once per row.
package cache

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/models"
)

const defaultSize = 512

// Profiles caches User records by id with LRU eviction. Its lifetime is
// the server process; Invalidate must be called on profile updates.
type Profiles struct {
	db  *gorm.DB
	lru *lru.Cache[int, models.User]
}

func NewProfiles(db *gorm.DB, size int) (*Profiles, error) {
	if size <= 0 {
		size = defaultSize
	}
	c, err := lru.New[int, models.User](size)
	if err != nil {
		return nil, err
	}
	return &Profiles{db: db, lru: c}, nil
}

// Get returns the user, loading it from the database on a miss.
// A missing user returns (zero, false, nil).
func (p *Profiles) Get(id int) (models.User, bool, error) {
	if u, ok := p.lru.Get(id); ok {
		return u, true, nil
	}

	var u models.User
	err := p.db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}

	p.lru.Add(id, u)
	return u, true, nil
}

// Invalidate drops a user from the cache after a profile update.
func (p *Profiles) Invalidate(id int) {
	p.lru.Remove(id)
}

func (p *Profiles) Len() int {
	return p.lru.Len()
}
