// Package reconciler реализует идемпотентную реконсиляцию: превращает
// устаревшее каноническое состояние (вычисленное резолвером) в сохранённое
// понижение. Все записи условные — понижение применяется только если
// сохранённое состояние всё ещё соответствует предусловию, поэтому
// конкурентное подтверждение оплаты не может быть затёрто, а повторный
// вызов на уже пониженном пользователе — no-op.
package reconciler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/beachcast/internal/access"
	"github.com/magabrotheeeer/beachcast/internal/lib/sl"
	"github.com/magabrotheeeer/beachcast/internal/models"
)

// Repository определяет методы чтения и условные обновления хранилища.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetCurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	// ExpireTrial условно закрывает истёкший пробный период.
	ExpireTrial(ctx context.Context, userUID string) (bool, error)
	// ExpireLapsedSubscription условно помечает отменённую подписку
	// истёкшей и понижает тариф пользователя.
	ExpireLapsedSubscription(ctx context.Context, userUID string) (bool, error)
	// FindLapsedUsers возвращает пользователей с устаревшим состоянием.
	FindLapsedUsers(ctx context.Context) ([]string, error)
}

// Service выполняет реконсиляцию по запросу или по расписанию.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Reconcile приводит сохранённое состояние пользователя в соответствие
// с каноническим. Возвращает true, если хранилище было изменено.
// Вызывается явно — из обработчика статуса или воркера, никогда как
// неявный побочный эффект чистого чтения.
func (s *Service) Reconcile(ctx context.Context, userUID string) (bool, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return false, err
	}
	sub, err := s.repo.GetCurrentSubscription(ctx, userUID)
	if err != nil {
		return false, err
	}

	now := s.now().UTC()
	decision := access.Resolve(user, sub, now)
	if decision.State != access.StateExpired {
		return false, nil
	}

	changed := false

	if user.SubscriptionStatus == models.SubscriptionStatusTrial &&
		user.TrialEndDate != nil && !now.Before(*user.TrialEndDate) {
		ok, err := s.repo.ExpireTrial(ctx, userUID)
		if err != nil {
			return changed, err
		}
		if ok {
			s.log.Info("trial expired", slog.String("user_uid", userUID))
			changed = true
		}
	}

	if sub != nil && sub.Status == models.SubscriptionStatusCanceled && !now.Before(sub.EndDate) {
		ok, err := s.repo.ExpireLapsedSubscription(ctx, userUID)
		if err != nil {
			return changed, err
		}
		if ok {
			s.log.Info("canceled subscription expired, user downgraded",
				slog.String("user_uid", userUID))
			changed = true
		}
	}

	return changed, nil
}

// ReconcileAll прогоняет реконсиляцию по всем пользователям с устаревшим
// состоянием и возвращает идентификаторы тех, кто был понижен.
// Используется воркером.
func (s *Service) ReconcileAll(ctx context.Context) []string {
	uids, err := s.repo.FindLapsedUsers(ctx)
	if err != nil {
		s.log.Error("failed to find lapsed users", sl.Err(err))
		return nil
	}

	var downgraded []string
	for _, uid := range uids {
		changed, err := s.Reconcile(ctx, uid)
		if err != nil {
			s.log.Error("failed to reconcile user", slog.String("user_uid", uid), sl.Err(err))
			continue
		}
		if changed {
			downgraded = append(downgraded, uid)
		}
	}
	return downgraded
}
