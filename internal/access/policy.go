// Package access содержит таблицу прав доступа по тарифам и чистый
// резолвер канонического статуса подписки. Таблица статична, не выполняет
// I/O и проверяется на полноту при старте приложения: отсутствующий ключ —
// это дефект конфигурации, а не неявный "false".
package access

import "fmt"

// Tier — канонический тариф доступа.
type Tier string

// Канонические тарифы. Исторически в системе встречались два словаря
// (free/pro/admin и free/consumer/business/enterprise) — здесь они сведены
// к одному, соответствие задаёт ParseTier.
const (
	TierAnonymous Tier = "anonymous"
	TierFree      Tier = "free"
	TierElevated  Tier = "elevated"
	TierAdmin     Tier = "admin"
)

// ParseTier переводит сохранённое значение тарифа в каноническое.
// Устаревшие платные тарифы (pro, consumer, business, enterprise)
// считаются elevated. Неизвестное значение даёт anonymous — самый
// ограниченный тариф, никогда не повышенный.
func ParseTier(s string) Tier {
	switch s {
	case "anonymous":
		return TierAnonymous
	case "free", "user":
		return TierFree
	case "elevated", "pro", "consumer", "business", "enterprise":
		return TierElevated
	case "admin":
		return TierAdmin
	default:
		return TierAnonymous
	}
}

// Capability — ключ булевой возможности тарифа.
type Capability string

// Возможности, различающиеся по тарифам.
const (
	CapCurrentConditions Capability = "current_conditions" // Текущие условия на пляже
	CapForecast          Capability = "forecast"           // Прогноз
	CapHistoricalTrend   Capability = "historical_trend"   // Исторические тренды
	CapCommunityWrite    Capability = "community_write"    // Записи сообщества
	CapDataExport        Capability = "data_export"        // Экспорт данных
	CapExternalAPI       Capability = "external_api"       // Доступ к внешнему API
)

// LimitKey — ключ числового ограничения тарифа.
type LimitKey string

// Числовые ограничения, различающиеся по тарифам.
const (
	LimitAlerts              LimitKey = "alerts"                 // Количество оповещений
	LimitDetailViewsPerDay   LimitKey = "detail_views_per_day"   // Просмотров деталей в день
	LimitExternalCallsPerDay LimitKey = "external_calls_per_day" // Вызовов внешнего API в день
)

// Limit — значение числового ограничения. Unbounded — отдельное состояние,
// а не большое число, чтобы арифметика с ним не оказалась случайно конечной.
type Limit struct {
	n         int
	unbounded bool
}

// Unbounded — ограничение без верхней границы.
var Unbounded = Limit{unbounded: true}

// Bounded возвращает конечное ограничение со значением n.
func Bounded(n int) Limit {
	return Limit{n: n}
}

// IsUnbounded сообщает, что ограничение не имеет верхней границы.
func (l Limit) IsUnbounded() bool { return l.unbounded }

// Allows сообщает, допустимо ли значение used при данном ограничении.
func (l Limit) Allows(used int) bool {
	return l.unbounded || used < l.n
}

// Value возвращает числовое значение конечного ограничения.
// Для Unbounded возвращает 0 — перед вызовом нужно проверить IsUnbounded.
func (l Limit) Value() int { return l.n }

var tiers = []Tier{TierAnonymous, TierFree, TierElevated, TierAdmin}

var capabilityKeys = []Capability{
	CapCurrentConditions, CapForecast, CapHistoricalTrend,
	CapCommunityWrite, CapDataExport, CapExternalAPI,
}

var limitKeys = []LimitKey{LimitAlerts, LimitDetailViewsPerDay, LimitExternalCallsPerDay}

var capabilities = map[Tier]map[Capability]bool{
	TierAnonymous: {
		CapCurrentConditions: true,
		CapForecast:          false,
		CapHistoricalTrend:   false,
		CapCommunityWrite:    false,
		CapDataExport:        false,
		CapExternalAPI:       false,
	},
	TierFree: {
		CapCurrentConditions: true,
		CapForecast:          false,
		CapHistoricalTrend:   false,
		CapCommunityWrite:    true,
		CapDataExport:        false,
		CapExternalAPI:       false,
	},
	TierElevated: {
		CapCurrentConditions: true,
		CapForecast:          true,
		CapHistoricalTrend:   true,
		CapCommunityWrite:    true,
		CapDataExport:        true,
		CapExternalAPI:       true,
	},
	TierAdmin: {
		CapCurrentConditions: true,
		CapForecast:          true,
		CapHistoricalTrend:   true,
		CapCommunityWrite:    true,
		CapDataExport:        true,
		CapExternalAPI:       true,
	},
}

var limits = map[Tier]map[LimitKey]Limit{
	TierAnonymous: {
		LimitAlerts:              Bounded(0),
		LimitDetailViewsPerDay:   Bounded(3),
		LimitExternalCallsPerDay: Bounded(0),
	},
	TierFree: {
		LimitAlerts:              Bounded(1),
		LimitDetailViewsPerDay:   Bounded(10),
		LimitExternalCallsPerDay: Bounded(0),
	},
	TierElevated: {
		LimitAlerts:              Bounded(10),
		LimitDetailViewsPerDay:   Unbounded,
		LimitExternalCallsPerDay: Bounded(500),
	},
	TierAdmin: {
		LimitAlerts:              Unbounded,
		LimitDetailViewsPerDay:   Unbounded,
		LimitExternalCallsPerDay: Unbounded,
	},
}

// HasCapability возвращает значение возможности key для тарифа tier.
// Для неизвестного тарифа или ключа возвращает false.
func HasCapability(tier Tier, key Capability) bool {
	caps, ok := capabilities[tier]
	if !ok {
		return false
	}
	return caps[key]
}

// LimitFor возвращает числовое ограничение key для тарифа tier.
// Для неизвестного тарифа или ключа возвращает Bounded(0).
func LimitFor(tier Tier, key LimitKey) Limit {
	ls, ok := limits[tier]
	if !ok {
		return Bounded(0)
	}
	l, ok := ls[key]
	if !ok {
		return Bounded(0)
	}
	return l
}

// ValidatePolicy проверяет, что каждый тариф определяет каждый известный
// ключ возможности и ограничения. Вызывается при старте приложения:
// лучше упасть сразу, чем молча отказывать в доступе в продакшене.
func ValidatePolicy() error {
	for _, tier := range tiers {
		caps, ok := capabilities[tier]
		if !ok {
			return fmt.Errorf("policy: tier %q has no capability table", tier)
		}
		for _, key := range capabilityKeys {
			if _, ok := caps[key]; !ok {
				return fmt.Errorf("policy: tier %q is missing capability %q", tier, key)
			}
		}
		ls, ok := limits[tier]
		if !ok {
			return fmt.Errorf("policy: tier %q has no limit table", tier)
		}
		for _, key := range limitKeys {
			if _, ok := ls[key]; !ok {
				return fmt.Errorf("policy: tier %q is missing limit %q", tier, key)
			}
		}
	}
	return nil
}
