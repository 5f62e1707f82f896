// Package ratelimit реализует ограничитель частоты запросов по схеме
// фиксированного окна: не более N запросов на ключ клиента за окно W.
//
// Известная слабость схемы: на границе окна клиент может успеть сделать
// до 2N запросов. Это принятый компромисс, пока не понадобится скользящее
// окно или token bucket.
//
// Счётчики окна вынесены за интерфейс Store: для одного экземпляра
// достаточно памяти процесса, для нескольких — Redis (см. RedisStore).
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// Decision — итог проверки запроса. Отказ — обычное, ожидаемое событие,
// RetryAfter подсказывает клиенту, через сколько секунд окно откроется.
type Decision struct {
	Allowed    bool
	RetryAfter int
}

// Store — атомарный счётчик фиксированных окон по ключу клиента.
// Incr увеличивает счётчик текущего окна (создавая окно при первом
// обращении или после его истечения) и возвращает новое значение
// вместе с временем до конца окна.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int, expiresIn time.Duration, err error)
}

// Limiter ограничивает количество запросов на ключ клиента.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

// New создаёт ограничитель с хранилищем счётчиков в памяти процесса.
func New(max int, window time.Duration) *Limiter {
	return NewWithStore(newMemoryStore(), max, window)
}

// NewWithStore создаёт ограничитель с внешним хранилищем счётчиков.
func NewWithStore(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window}
}

// Max возвращает максимум запросов за окно.
func (l *Limiter) Max() int { return l.max }

// Window возвращает длину окна.
func (l *Limiter) Window() time.Duration { return l.window }

// Allow атомарно учитывает запрос клиента и решает, пропускать ли его.
// Ошибка хранилища не блокирует запрос: ограничитель защищает ресурсы,
// а не служит барьером доступности.
func (l *Limiter) Allow(ctx context.Context, clientKey string) (Decision, error) {
	count, expiresIn, err := l.store.Incr(ctx, clientKey, l.window)
	if err != nil {
		return Decision{Allowed: true}, fmt.Errorf("ratelimit: %w", err)
	}
	if count > l.max {
		return Decision{RetryAfter: ceilSeconds(expiresIn)}, nil
	}
	return Decision{Allowed: true}, nil
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// bucket — счётчик одного окна. Счётчик не бывает отрицательным.
type bucket struct {
	count       int
	windowStart time.Time
}

// memoryStore хранит счётчики в памяти процесса под одним мьютексом:
// проверка и инкремент — одна критическая секция, а не раздельные
// чтение и запись.
type memoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	ops     int
	now     func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// purgeEvery задаёт периодичность попутной чистки истёкших окон.
// Чистка влияет только на память, никогда на корректность.
const purgeEvery = 4096

func (s *memoryStore) Incr(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	s.ops++
	if s.ops%purgeEvery == 0 {
		s.purge(now, window)
	}

	b, ok := s.buckets[key]
	if !ok || now.Sub(b.windowStart) >= window {
		b = &bucket{count: 0, windowStart: now}
		s.buckets[key] = b
	}
	b.count++
	return b.count, b.windowStart.Add(window).Sub(now), nil
}

func (s *memoryStore) purge(now time.Time, window time.Duration) {
	for key, b := range s.buckets {
		if now.Sub(b.windowStart) >= window {
			delete(s.buckets, key)
		}
	}
}
