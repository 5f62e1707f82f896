// Package billing содержит бизнес-логику применения платёжных событий
// к сохранённому состоянию подписки: подтверждение оплаты, отмена
// и обработка вебхуков платёжного шлюза.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/beachcast/internal/billinggateway"
	"github.com/magabrotheeeer/beachcast/internal/models"
)

// ErrUpstreamBilling возвращается, когда платёжный шлюз недоступен или
// не ответил вовремя. Подтверждение при этом не применяется вовсе:
// повышение доступа — всё или ничего.
var ErrUpstreamBilling = errors.New("billing gateway unavailable")

// ErrPaymentNotSucceeded возвращается при попытке подтвердить платёж,
// который шлюз не считает успешным.
var ErrPaymentNotSucceeded = errors.New("payment not succeeded")

// Repository определяет методы хранилища, нужные платёжной логике.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ActivateSubscription(ctx context.Context, userUID, billingCycle, paymentID string, now time.Time) (*models.Subscription, error)
	CancelActiveSubscription(ctx context.Context, userUID string, now time.Time) (*models.Subscription, error)
}

// Gateway описывает клиент платёжного шлюза.
type Gateway interface {
	GetPayment(ctx context.Context, paymentID string) (*billinggateway.Payment, error)
}

// Service применяет платёжные события к состоянию подписки.
type Service struct {
	repo    Repository
	gateway Gateway
	log     *slog.Logger
	now     func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, gateway Gateway, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		log:     log,
		now:     time.Now,
	}
}

// Confirm применяет подтверждённую оплату: сверяет платёж со шлюзом
// и активирует подписку одной транзакцией. Недоступность шлюза обрывает
// операцию без каких-либо изменений состояния.
func (s *Service) Confirm(ctx context.Context, userUID string, req models.DummyConfirm) (*models.Subscription, error) {
	payment, err := s.gateway.GetPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamBilling, err)
	}
	if payment.Status != billinggateway.PaymentStatusSucceeded {
		return nil, ErrPaymentNotSucceeded
	}

	sub, err := s.repo.ActivateSubscription(ctx, userUID, req.Plan, req.PaymentID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.log.Info("subscription activated",
		slog.String("user_uid", userUID),
		slog.String("payment_id", req.PaymentID),
		slog.String("plan", req.Plan))
	return sub, nil
}

// Cancel помечает активную подписку отменённой. Доступ сохраняется
// до конца оплаченного периода.
func (s *Service) Cancel(ctx context.Context, userUID string) (*models.Subscription, error) {
	sub, err := s.repo.CancelActiveSubscription(ctx, userUID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription canceled",
		slog.String("user_uid", userUID),
		slog.Time("access_until", sub.EndDate))
	return sub, nil
}
