package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LimiterStore — token-bucket на клиента (по IP) с кэшем лимитеров и
// периодической чисткой простаивающих записей.
type LimiterStore struct {
	mu          sync.Mutex
	entries     map[string]*limiterEntry
	rps         rate.Limit
	burst       int
	idleTTL     time.Duration
	lastCleanup time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewLimiterStore(rps float64, burst int) *LimiterStore {
	if burst < 1 {
		burst = 1
	}
	return &LimiterStore{
		entries:     make(map[string]*limiterEntry),
		rps:         rate.Limit(rps),
		burst:       burst,
		idleTTL:     15 * time.Minute,
		lastCleanup: time.Now(),
	}
}

// Get возвращает лимитер ключа, создавая его при первом обращении.
// Простаивающие ключи выбрасываются попутно, не чаще раза в idleTTL.
func (s *LimiterStore) Get(key string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastCleanup) > s.idleTTL {
		cutoff := now.Add(-s.idleTTL)
		for k, ent := range s.entries {
			if ent.lastSeen.Before(cutoff) {
				delete(s.entries, k)
			}
		}
		s.lastCleanup = now
	}

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// RateLimit отвечает 429, когда бакет клиента пуст.
func RateLimit(store *LimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}
