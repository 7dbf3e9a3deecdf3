package search

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/factlab/veracity/internal/cache"
)

// QuotaGuard tracks API requests against a daily budget. The in-memory
// counter is authoritative; an optional cache store persists it so restarts
// within the same UTC day keep counting. A nil guard permits everything.
type QuotaGuard struct {
	store  cache.Cache
	limit  int
	mu     sync.Mutex
	state  quotaState
	loaded bool
	now    func() time.Time
}

type quotaState struct {
	Date  string `json:"date"` // UTC day, 2006-01-02
	Count int    `json:"count"`
}

// NewQuotaGuard creates a quota guard with the given daily limit.
// A limit of zero or less disables the guard.
func NewQuotaGuard(store cache.Cache, limit int) *QuotaGuard {
	return &QuotaGuard{
		store: store,
		limit: limit,
		now:   time.Now,
	}
}

// Reserve consumes one request from today's budget, or fails with
// ErrQuotaExhausted once the budget is spent. The counter resets when the
// UTC date changes.
func (q *QuotaGuard) Reserve() error {
	if q == nil || q.limit <= 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.roll()
	if q.state.Count >= q.limit {
		return fmt.Errorf("daily limit %d reached: %w", q.limit, ErrQuotaExhausted)
	}

	q.state.Count++
	q.persist()
	return nil
}

// Remaining reports how many requests are left today. A disabled guard
// reports -1.
func (q *QuotaGuard) Remaining() int {
	if q == nil || q.limit <= 0 {
		return -1
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.roll()
	if q.state.Count >= q.limit {
		return 0
	}
	return q.limit - q.state.Count
}

// roll loads persisted state on first use and resets the counter when the
// UTC date has changed. Callers hold the mutex.
func (q *QuotaGuard) roll() {
	if !q.loaded {
		q.loaded = true
		if q.store != nil {
			if data, found := q.store.Get(cache.StateKey("quota")); found {
				_ = json.Unmarshal(data, &q.state)
			}
		}
	}

	today := q.now().UTC().Format("2006-01-02")
	if q.state.Date != today {
		q.state = quotaState{Date: today}
	}
}

func (q *QuotaGuard) persist() {
	if q.store == nil {
		return
	}
	if data, err := json.Marshal(q.state); err == nil {
		// Keep the entry past midnight so rollover is observable on restart
		_ = q.store.Set(cache.StateKey("quota"), data, 48*time.Hour)
	}
}
