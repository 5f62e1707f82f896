package billing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/beachcast/internal/models"
	"github.com/magabrotheeeer/beachcast/internal/storage/repository"
)

// Типы событий платёжного шлюза, которые меняют состояние подписки.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentCanceled  = "payment.canceled"
	EventPaymentRefunded  = "payment.refunded"
)

// ProcessWebhookEvent применяет событие шлюза к состоянию подписки.
// События адресуются по email. Неизвестные типы событий игнорируются:
// шлюз шлёт больше, чем нам нужно.
func (s *Service) ProcessWebhookEvent(ctx context.Context, event *models.WebhookEvent) error {
	log := s.log.With(
		slog.String("event_type", event.EventType),
		slog.String("payment_id", event.PaymentID),
	)

	switch event.EventType {
	case EventPaymentSucceeded:
		user, err := s.repo.GetUserByEmail(ctx, event.Email)
		if err != nil {
			return err
		}
		plan := event.Plan
		if plan == "" {
			plan = models.BillingCycleMonthly
		}
		if _, err := s.repo.ActivateSubscription(ctx, user.UID, plan, event.PaymentID, s.now().UTC()); err != nil {
			return err
		}
		log.Info("webhook activated subscription", slog.String("user_uid", user.UID))
		return nil

	case EventPaymentCanceled, EventPaymentRefunded:
		user, err := s.repo.GetUserByEmail(ctx, event.Email)
		if err != nil {
			return err
		}
		_, err = s.repo.CancelActiveSubscription(ctx, user.UID, s.now().UTC())
		if errors.Is(err, repository.ErrNoActiveSubscription) {
			// Отменять нечего: событие устарело или продублировано.
			log.Info("webhook cancel ignored, no active subscription",
				slog.String("user_uid", user.UID))
			return nil
		}
		if err != nil {
			return err
		}
		log.Info("webhook canceled subscription", slog.String("user_uid", user.UID))
		return nil

	default:
		log.Info("ignored webhook event")
		return nil
	}
}
