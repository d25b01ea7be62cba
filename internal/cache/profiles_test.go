package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/paracosm-app/backend/internal/models"
)

// The db-backed miss path is covered by the store integration tests;
// here the LRU behavior is exercised directly.
func newBare(t *testing.T, size int) *Profiles {
	t.Helper()
	c, err := lru.New[int, models.User](size)
	require.NoError(t, err)
	return &Profiles{lru: c}
}

func TestCacheHit(t *testing.T) {
	p := newBare(t, 4)
	p.lru.Add(1, models.User{ID: 1, Username: "ash"})

	u, ok, err := p.Get(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ash", u.Username)
}

func TestBoundedEviction(t *testing.T) {
	p := newBare(t, 2)
	p.lru.Add(1, models.User{ID: 1})
	p.lru.Add(2, models.User{ID: 2})
	p.lru.Add(3, models.User{ID: 3})

	assert.Equal(t, 2, p.Len(), "cache never exceeds its bound")
	_, ok := p.lru.Get(1)
	assert.False(t, ok, "oldest entry evicted")
}

func TestInvalidate(t *testing.T) {
	p := newBare(t, 4)
	p.lru.Add(5, models.User{ID: 5, Username: "old-name"})

	p.Invalidate(5)
	_, ok := p.lru.Get(5)
	assert.False(t, ok)
}
