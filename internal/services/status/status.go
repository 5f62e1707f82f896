// Package status содержит бизнес-логику запроса статуса доступа.
// Сервис только читает: каноническое решение вычисляется чистым
// резолвером, устаревшие понижения применяет отдельный сервис
// реконсиляции, который вызывается явно, а не как побочный эффект чтения.
package status

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/beachcast/internal/access"
	"github.com/magabrotheeeer/beachcast/internal/models"
)

// Repository определяет методы чтения пользователя и его подписки.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetCurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
}

// StatusService вычисляет каноническое решение о доступе и собирает
// ответ статуса.
type StatusService struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создает новый экземпляр StatusService.
func New(repo Repository, log *slog.Logger) *StatusService {
	return &StatusService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Resolve возвращает каноническое решение о доступе пользователя.
func (s *StatusService) Resolve(ctx context.Context, userUID string) (access.Decision, error) {
	user, sub, err := s.load(ctx, userUID)
	if err != nil {
		return access.Decision{}, err
	}
	return access.Resolve(user, sub, s.now().UTC()), nil
}

// GetStatus возвращает полный ответ статуса доступа, включая сведения
// о подписке.
func (s *StatusService) GetStatus(ctx context.Context, userUID string) (*models.AccessStatus, error) {
	user, sub, err := s.load(ctx, userUID)
	if err != nil {
		return nil, err
	}
	d := access.Resolve(user, sub, s.now().UTC())

	result := &models.AccessStatus{
		Tier:               string(d.Tier),
		SubscriptionStatus: user.SubscriptionStatus,
		IsInTrial:          d.IsInTrial,
		TrialDaysRemaining: d.DaysRemaining,
		HasElevatedAccess:  d.HasElevatedAccess,
	}

	if sub != nil {
		info := &models.SubscriptionInfo{
			Status:       sub.Status,
			BillingCycle: sub.BillingCycle,
			StartDate:    sub.StartDate,
			EndDate:      sub.EndDate,
			CanceledAt:   sub.CanceledAt,
		}
		// Следующая дата списания есть только у активной подписки:
		// после отмены льготный период заканчивается без продления.
		if sub.Status == models.SubscriptionStatusActive {
			next := sub.EndDate
			info.NextBillingDate = &next
		}
		result.Subscription = info
	}

	return result, nil
}

func (s *StatusService) load(ctx context.Context, userUID string) (*models.User, *models.Subscription, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, nil, err
	}
	sub, err := s.repo.GetCurrentSubscription(ctx, userUID)
	if err != nil {
		return nil, nil, err
	}
	return user, sub, nil
}
