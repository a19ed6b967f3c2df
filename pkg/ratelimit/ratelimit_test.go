package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDefaultConfigs(t *testing.T) {
	t.Run("DefaultAPIConfig", func(t *testing.T) {
		cfg := DefaultAPIConfig()
		assert.Equal(t, float64(20), cfg.Rate)
		assert.Equal(t, 50, cfg.Burst)
		assert.Equal(t, time.Minute, cfg.CleanupInterval)
		assert.Equal(t, 5*time.Minute, cfg.MaxAge)
	})

	t.Run("DefaultGuardianConfig", func(t *testing.T) {
		cfg := DefaultGuardianConfig()
		assert.Equal(t, float64(5), cfg.Rate)
		assert.Equal(t, 10, cfg.Burst)
	})

	t.Run("guardian config is tighter than API config", func(t *testing.T) {
		apiCfg := DefaultAPIConfig()
		guardianCfg := DefaultGuardianConfig()
		assert.Less(t, guardianCfg.Rate, apiCfg.Rate)
		assert.Less(t, guardianCfg.Burst, apiCfg.Burst)
	})
}

func TestNew(t *testing.T) {
	t.Run("creates limiter with config", func(t *testing.T) {
		cfg := Config{Rate: 10, Burst: 20, CleanupInterval: time.Second, MaxAge: time.Minute}
		rl := New(cfg)
		defer rl.Stop()

		assert.NotNil(t, rl)
		assert.Equal(t, float64(10), rl.Config().Rate)
		assert.Equal(t, 20, rl.Config().Burst)
	})

	t.Run("sets default cleanup interval if zero", func(t *testing.T) {
		cfg := Config{Rate: 10, Burst: 20, CleanupInterval: 0}
		rl := New(cfg)
		defer rl.Stop()

		assert.Equal(t, time.Minute, rl.Config().CleanupInterval)
	})

	t.Run("sets default max age if zero", func(t *testing.T) {
		cfg := Config{Rate: 10, Burst: 20, MaxAge: 0}
		rl := New(cfg)
		defer rl.Stop()

		assert.Equal(t, 5*time.Minute, rl.Config().MaxAge)
	})
}

func TestAllow(t *testing.T) {
	t.Run("allows requests within burst limit", func(t *testing.T) {
		cfg := Config{Rate: 1, Burst: 5, CleanupInterval: time.Hour, MaxAge: time.Hour}
		rl := New(cfg)
		defer rl.Stop()

		for i := 0; i < 5; i++ {
			assert.True(t, rl.Allow("192.168.1.1"), "request %d should be allowed", i)
		}
	})

	t.Run("blocks requests exceeding burst limit", func(t *testing.T) {
		cfg := Config{Rate: 1, Burst: 3, CleanupInterval: time.Hour, MaxAge: time.Hour}
		rl := New(cfg)
		defer rl.Stop()

		for i := 0; i < 3; i++ {
			rl.Allow("192.168.1.1")
		}

		assert.False(t, rl.Allow("192.168.1.1"))
	})

	t.Run("different IPs have separate limits", func(t *testing.T) {
		cfg := Config{Rate: 1, Burst: 2, CleanupInterval: time.Hour, MaxAge: time.Hour}
		rl := New(cfg)
		defer rl.Stop()

		rl.Allow("192.168.1.1")
		rl.Allow("192.168.1.1")
		assert.False(t, rl.Allow("192.168.1.1"))

		assert.True(t, rl.Allow("192.168.1.2"))
		assert.True(t, rl.Allow("192.168.1.2"))
	})

	t.Run("tokens refill over time", func(t *testing.T) {
		cfg := Config{Rate: 10, Burst: 1, CleanupInterval: time.Hour, MaxAge: time.Hour}
		rl := New(cfg)
		defer rl.Stop()

		assert.True(t, rl.Allow("192.168.1.1"))
		assert.False(t, rl.Allow("192.168.1.1"))

		// Wait for refill (10 req/s = 100ms per token)
		time.Sleep(150 * time.Millisecond)

		assert.True(t, rl.Allow("192.168.1.1"))
	})

	t.Run("tracks number of IPs", func(t *testing.T) {
		cfg := Config{Rate: 10, Burst: 10, CleanupInterval: time.Hour, MaxAge: time.Hour}
		rl := New(cfg)
		defer rl.Stop()

		assert.Equal(t, 0, rl.Len())

		rl.Allow("192.168.1.1")
		assert.Equal(t, 1, rl.Len())

		rl.Allow("192.168.1.2")
		assert.Equal(t, 2, rl.Len())

		// Same IP doesn't increase count
		rl.Allow("192.168.1.1")
		assert.Equal(t, 2, rl.Len())
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		cfg := Config{Rate: 10, Burst: 5, CleanupInterval: time.Hour, MaxAge: time.Hour}
		rl := New(cfg)
		defer rl.Stop()

		router := gin.New()
		router.Use(rl.Middleware())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})

		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "request %d should succeed", i)
		}
	})

	t.Run("returns 429 when rate limited", func(t *testing.T) {
		cfg := Config{Rate: 1, Burst: 2, CleanupInterval: time.Hour, MaxAge: time.Hour}
		rl := New(cfg)
		defer rl.Stop()

		router := gin.New()
		router.Use(rl.Middleware())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			router.ServeHTTP(w, req)
		}

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "Rate limit exceeded")
	})
}

func TestCleanup(t *testing.T) {
	t.Run("removes stale entries", func(t *testing.T) {
		cfg := Config{Rate: 10, Burst: 10, CleanupInterval: time.Hour, MaxAge: 50 * time.Millisecond}
		rl := New(cfg)
		defer rl.Stop()

		rl.Allow("192.168.1.1")
		rl.Allow("192.168.1.2")
		assert.Equal(t, 2, rl.Len())

		time.Sleep(100 * time.Millisecond)
		rl.cleanupStaleEntries()

		assert.Equal(t, 0, rl.Len())
	})

	t.Run("keeps fresh entries", func(t *testing.T) {
		cfg := Config{Rate: 10, Burst: 10, CleanupInterval: time.Hour, MaxAge: time.Hour}
		rl := New(cfg)
		defer rl.Stop()

		rl.Allow("192.168.1.1")
		rl.cleanupStaleEntries()

		assert.Equal(t, 1, rl.Len())
	})
}

func TestConcurrentAccess(t *testing.T) {
	cfg := Config{Rate: 1000, Burst: 1000, CleanupInterval: time.Hour, MaxAge: time.Hour}
	rl := New(cfg)
	defer rl.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ips := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}
			for j := 0; j < 100; j++ {
				rl.Allow(ips[(n+j)%len(ips)])
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, rl.Len())
}
