package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(rate.Limit(0.0001), 3)

	r := gin.New()
	r.POST("/vote", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/vote", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d within burst", i)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/vote", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiterKeyedPerUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(rate.Limit(0.0001), 1)

	r := gin.New()
	setUser := func(id int) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set("user_id", id) }
	}
	r.POST("/a", setUser(1), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/b", setUser(2), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	wa := httptest.NewRecorder()
	r.ServeHTTP(wa, httptest.NewRequest(http.MethodPost, "/a", nil))
	assert.Equal(t, http.StatusOK, wa.Code)

	// User 1 exhausted their budget; user 2 still has theirs.
	wa2 := httptest.NewRecorder()
	r.ServeHTTP(wa2, httptest.NewRequest(http.MethodPost, "/a", nil))
	assert.Equal(t, http.StatusTooManyRequests, wa2.Code)

	wb := httptest.NewRecorder()
	r.ServeHTTP(wb, httptest.NewRequest(http.MethodPost, "/b", nil))
	assert.Equal(t, http.StatusOK, wb.Code)
}
