package conditions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/beachcast/internal/lib/sl"
	"github.com/magabrotheeeer/beachcast/internal/models"
	"github.com/magabrotheeeer/beachcast/internal/quota"
)

// ErrQuotaExceeded возвращается, когда бюджет вызовов поставщика исчерпан.
// Это ожидаемый отказ: вызывающая сторона не обращается к поставщику
// в этот раз, автоматических повторов нет.
var ErrQuotaExceeded = errors.New("provider quota exceeded")

// QuotaExceededError несёт момент сброса исчерпанного окна квоты.
// Разворачивается в ErrQuotaExceeded, так что проверка errors.Is
// продолжает работать.
type QuotaExceededError struct {
	ResetAt time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("provider quota exceeded until %s", e.ResetAt.UTC().Format(time.RFC3339))
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// Provider описывает клиент внешнего поставщика данных.
type Provider interface {
	Fetch(ctx context.Context, spotID string) (*models.Conditions, error)
}

// Cache описывает методы кэширования ответов поставщика.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Ledger описывает леджер квот на вызовы поставщика.
type Ledger interface {
	TryConsume(resourceName string) quota.Result
	IsApproachingLimit(resourceName string) bool
}

// Service отдаёт условия на пляже, расходуя бюджет поставщика только
// при промахе кеша.
type Service struct {
	provider     Provider
	cache        Cache
	ledger       Ledger
	resourceName string
	cacheTTL     time.Duration
	log          *slog.Logger
}

// New создает новый экземпляр Service.
func New(provider Provider, cache Cache, ledger Ledger, resourceName string, cacheTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		provider:     provider,
		cache:        cache,
		ledger:       ledger,
		resourceName: resourceName,
		cacheTTL:     cacheTTL,
		log:          log,
	}
}

// Current возвращает текущие условия для пляжа. Попадание в кеш не
// расходует квоту; промах проходит атомарную проверку бюджета до вызова
// поставщика.
func (s *Service) Current(ctx context.Context, spotID string) (*models.Conditions, error) {
	cacheKey := fmt.Sprintf("conditions:%s", spotID)

	if s.cache != nil {
		var cached models.Conditions
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read conditions cache", slog.String("key", cacheKey), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	res := s.ledger.TryConsume(s.resourceName)
	if !res.Allowed {
		s.log.Info("provider quota exhausted",
			slog.String("resource", s.resourceName),
			slog.Int("daily_remaining", res.DailyRemaining),
			slog.Int("monthly_remaining", res.MonthlyRemaining))
		return nil, &QuotaExceededError{ResetAt: res.ResetAt}
	}

	cond, err := s.provider.Fetch(ctx, spotID)
	if err != nil {
		return nil, err
	}

	if s.ledger.IsApproachingLimit(s.resourceName) {
		s.log.Warn("provider quota approaching limit", slog.String("resource", s.resourceName))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, cond, s.cacheTTL); err != nil {
			s.log.Warn("failed to cache conditions", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return cond, nil
}
