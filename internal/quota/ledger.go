// Package quota реализует учёт потребления внешних ресурсов по дневным
// и месячным окнам. Леджер защищает внешних поставщиков данных от
// превышения бюджета вызовов: проверка и инкремент выполняются одной
// атомарной операцией под мьютексом, отдельного шага записи нет.
//
// Счётчики живут в памяти процесса: это осознанная мягкая квота для
// одного экземпляра. Для нескольких экземпляров счётчики должны
// переехать в общее атомарно-обновляемое хранилище.
package quota

import (
	"sync"
	"time"
)

// Limits — дневной и месячный бюджет вызовов одного ресурса.
type Limits struct {
	Daily   int
	Monthly int
}

// Result — итог попытки потребления. Исчерпание квоты — обычный,
// ожидаемый отказ, а не ошибка; повторной попытки леджер не подразумевает.
// При отказе ResetAt указывает момент сброса исчерпанного окна, чтобы
// вызывающая сторона могла сообщить клиенту, когда повторить запрос.
type Result struct {
	Allowed          bool
	DailyRemaining   int
	MonthlyRemaining int
	ResetAt          time.Time
}

// Usage — состояние счётчиков ресурса для административного запроса.
type Usage struct {
	Daily          int       `json:"daily"`
	Monthly        int       `json:"monthly"`
	DailyLimit     int       `json:"daily_limit"`
	MonthlyLimit   int       `json:"monthly_limit"`
	DailyPercent   float64   `json:"daily_percent"`
	MonthlyPercent float64   `json:"monthly_percent"`
	DailyResetAt   time.Time `json:"daily_reset_at"`
	MonthlyResetAt time.Time `json:"monthly_reset_at"`
}

// counter — счётчики одного ресурса. Ключи окон сравниваются с ключами,
// производными от текущего момента: несовпадение означает переход окна,
// и счётчик сбрасывается до оценки текущей попытки.
type counter struct {
	dayKey   string
	monthKey string
	daily    int
	monthly  int
}

// Ledger — леджер квот по именам ресурсов. Счётчики создаются лениво
// при первой попытке потребления.
type Ledger struct {
	mu       sync.Mutex
	limits   map[string]Limits
	counters map[string]*counter
	now      func() time.Time
}

// NewLedger создаёт леджер с бюджетами по именам ресурсов.
func NewLedger(limits map[string]Limits) *Ledger {
	ls := make(map[string]Limits, len(limits))
	for name, l := range limits {
		ls[name] = l
	}
	return &Ledger{
		limits:   ls,
		counters: make(map[string]*counter),
		now:      time.Now,
	}
}

// TryConsume атомарно проверяет бюджет ресурса и при успехе сразу
// учитывает вызов. Allowed=false означает "не вызывать внешний ресурс
// в этот раз". Незарегистрированный ресурс не потребляется никогда —
// отказ по умолчанию защищает поставщика от неучтённых вызовов.
func (l *Ledger) TryConsume(resourceName string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	limits, ok := l.limits[resourceName]
	if !ok {
		return Result{}
	}

	now := l.now()
	c := l.counterFor(resourceName, now)

	if c.daily >= limits.Daily || c.monthly >= limits.Monthly {
		resetAt := firstOfNextMonth(now)
		if c.daily >= limits.Daily {
			resetAt = nextUTCMidnight(now)
		}
		return Result{
			DailyRemaining:   limits.Daily - c.daily,
			MonthlyRemaining: limits.Monthly - c.monthly,
			ResetAt:          resetAt,
		}
	}

	c.daily++
	c.monthly++
	return Result{
		Allowed:          true,
		DailyRemaining:   limits.Daily - c.daily,
		MonthlyRemaining: limits.Monthly - c.monthly,
	}
}

// IsApproachingLimit сообщает, достигло ли потребление 80% дневного или
// месячного бюджета. Сигнал для мониторинга, не для отказа в вызовах.
func (l *Ledger) IsApproachingLimit(resourceName string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limits, ok := l.limits[resourceName]
	if !ok {
		return false
	}
	c := l.counterFor(resourceName, l.now())
	return c.daily*100 >= limits.Daily*80 || c.monthly*100 >= limits.Monthly*80
}

// Snapshot возвращает состояние счётчиков всех ресурсов вместе
// с моментами сброса окон: ближайшая полночь UTC для дневного,
// первое число следующего месяца для месячного.
func (l *Ledger) Snapshot() map[string]Usage {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	result := make(map[string]Usage, len(l.limits))
	for name, limits := range l.limits {
		c := l.counterFor(name, now)
		result[name] = Usage{
			Daily:          c.daily,
			Monthly:        c.monthly,
			DailyLimit:     limits.Daily,
			MonthlyLimit:   limits.Monthly,
			DailyPercent:   percent(c.daily, limits.Daily),
			MonthlyPercent: percent(c.monthly, limits.Monthly),
			DailyResetAt:   nextUTCMidnight(now),
			MonthlyResetAt: firstOfNextMonth(now),
		}
	}
	return result
}

// counterFor возвращает счётчик ресурса, создавая его лениво
// и сбрасывая устаревшие окна. Вызывается только под мьютексом.
func (l *Ledger) counterFor(resourceName string, now time.Time) *counter {
	c, ok := l.counters[resourceName]
	if !ok {
		c = &counter{dayKey: dayKey(now), monthKey: monthKey(now)}
		l.counters[resourceName] = c
	}

	if dk := dayKey(now); c.dayKey != dk {
		c.dayKey = dk
		c.daily = 0
	}
	if mk := monthKey(now); c.monthKey != mk {
		c.monthKey = mk
		c.monthly = 0
	}
	return c
}

func dayKey(t time.Time) string   { return t.UTC().Format("2006-01-02") }
func monthKey(t time.Time) string { return t.UTC().Format("2006-01") }

func percent(used, limit int) float64 {
	if limit == 0 {
		return 0
	}
	return float64(used) / float64(limit) * 100
}

func nextUTCMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, time.UTC)
}

func firstOfNextMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}
