package quota

import (
	"sync"
	"time"

	"github.com/magabrotheeeer/beachcast/internal/access"
)

// ViewResult — итог учёта просмотра деталей. ResetAt — ближайшая
// полночь UTC, момент сброса дневного окна.
type ViewResult struct {
	Allowed bool
	ResetAt time.Time
}

// ViewCounter считает просмотры деталей по пользователям в дневном окне
// UTC. Ограничение зависит от тарифа и передаётся при каждой попытке:
// тариф пользователя может измениться между просмотрами.
type ViewCounter struct {
	mu     sync.Mutex
	dayKey string
	counts map[string]int
	now    func() time.Time
}

// NewViewCounter создаёт пустой счётчик просмотров.
func NewViewCounter() *ViewCounter {
	return &ViewCounter{
		counts: make(map[string]int),
		now:    time.Now,
	}
}

// TryConsume атомарно проверяет ограничение и при успехе сразу учитывает
// просмотр. Переход дня сбрасывает все счётчики до оценки текущей попытки.
func (c *ViewCounter) TryConsume(userKey string, limit access.Limit) ViewResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if dk := dayKey(now); c.dayKey != dk {
		c.dayKey = dk
		c.counts = make(map[string]int)
	}

	if !limit.Allows(c.counts[userKey]) {
		return ViewResult{ResetAt: nextUTCMidnight(now)}
	}
	c.counts[userKey]++
	return ViewResult{Allowed: true, ResetAt: nextUTCMidnight(now)}
}
