package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/beachcast/internal/models"
)

const subscriptionColumns = `id, user_uid, status, billing_cycle, start_date,
			      end_date, canceled_at, payment_id, created_at`

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var canceledAt sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.Status, &sub.BillingCycle,
		&sub.StartDate, &sub.EndDate, &canceledAt, &sub.PaymentID, &sub.CreatedAt); err != nil {
		return nil, err
	}
	if canceledAt.Valid {
		sub.CanceledAt = &canceledAt.Time
	}
	return sub, nil
}

// GetCurrentSubscription возвращает действующую подписку пользователя:
// активную либо отменённую (льготный период). Если такой подписки нет,
// возвращает (nil, nil) — отсутствие подписки не ошибка, резолвер
// обрабатывает его сам.
func (s *Storage) GetCurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetCurrentSubscription"

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_uid = $1 AND status IN ('active', 'canceled')
			  ORDER BY start_date DESC
			  LIMIT 1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ActivateSubscription применяет подтверждённую оплату: создаёт активную
// подписку и повышает тариф пользователя. Всё выполняется в одной
// транзакции — повышение доступа применяется целиком или не применяется
// вовсе. Повторное подтверждение того же платежа возвращает уже созданную
// подписку без изменений (идемпотентность по payment_id).
func (s *Storage) ActivateSubscription(ctx context.Context, userUID, billingCycle, paymentID string, now time.Time) (*models.Subscription, error) {
	const op = "storage.ActivateSubscription"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existing, err := scanSubscription(tx.QueryRowContext(ctx, `SELECT `+subscriptionColumns+`
			  FROM subscriptions
			  WHERE payment_id = $1`, paymentID))
	if err == nil {
		if err = tx.Commit(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	endDate := now.AddDate(0, 1, 0)
	if billingCycle == models.BillingCycleYearly {
		endDate = now.AddDate(1, 0, 0)
	}

	sub, err := scanSubscription(tx.QueryRowContext(ctx, `INSERT INTO subscriptions
			      (user_uid, status, billing_cycle, start_date, end_date, payment_id)
			  VALUES ($1, 'active', $2, $3, $4, $5)
			  RETURNING `+subscriptionColumns, userUID, billingCycle, now, endDate, paymentID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE users
		      SET tier = CASE WHEN tier = 'admin' THEN tier ELSE 'elevated' END,
		          subscription_status = 'active'
		      WHERE uid = $1;`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// CancelActiveSubscription помечает активную подписку отменённой.
// Доступ сохраняется до end_date, поэтому тариф пользователя здесь
// не трогается — понижение выполнит реконсиляция после даты окончания.
// Отсутствие активной подписки — конфликт состояния, а не тихий успех.
func (s *Storage) CancelActiveSubscription(ctx context.Context, userUID string, now time.Time) (*models.Subscription, error) {
	const op = "storage.CancelActiveSubscription"

	query := `UPDATE subscriptions
		      SET status = 'canceled', canceled_at = $2
		      WHERE user_uid = $1 AND status = 'active'
		      RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userUID, now))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSubscription)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}
