package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/beachcast/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role, tier,
			      subscription_status, trial_end_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.Tier,
		user.SubscriptionStatus, user.TrialEndDate).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

const userColumns = `uid, email, username, password_hash, role, tier,
			      subscription_status, trial_end_date, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var trialEndDate sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.Tier, &u.SubscriptionStatus, &trialEndDate, &u.CreatedAt); err != nil {
		return nil, err
	}
	if trialEndDate.Valid {
		u.TrialEndDate = &trialEndDate.Time
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по его email. Используется
// при обработке событий платёжного шлюза, которые адресуются по почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindLapsedUsers находит пользователей, чьё каноническое состояние
// устарело: пробный период истёк, но статус всё ещё trial, либо
// отменённая подписка пережила дату окончания. Используется воркером
// реконсиляции.
func (s *Storage) FindLapsedUsers(ctx context.Context) ([]string, error) {
	const op = "storage.FindLapsedUsers"

	query := `SELECT uid FROM users
		      WHERE (subscription_status = 'trial' AND trial_end_date < now())
		      UNION
		      SELECT user_uid FROM subscriptions
		      WHERE status = 'canceled' AND end_date < now();`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var uid string
		if err = rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, uid)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ExpireTrial переводит истёкший пробный период в subscription_status='none'.
// Обновление условное: срабатывает только если статус всё ещё trial и дата
// окончания уже в прошлом, поэтому повторный вызов — no-op, а конкурентная
// активация подписки не может быть затёрта устаревшим понижением.
func (s *Storage) ExpireTrial(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.ExpireTrial"

	query := `UPDATE users
		      SET subscription_status = 'none'
		      WHERE uid = $1
		        AND subscription_status = 'trial'
		        AND trial_end_date < now();`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// ExpireLapsedSubscription помечает отменённую подписку с прошедшей датой
// окончания как expired и понижает тариф пользователя до free. Обе записи
// выполняются в одной транзакции; понижение тарифа дополнительно защищено
// проверкой отсутствия активной подписки, чтобы конкурентное подтверждение
// оплаты детерминированно побеждало устаревшее понижение.
func (s *Storage) ExpireLapsedSubscription(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.ExpireLapsedSubscription"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `UPDATE subscriptions
		      SET status = 'expired'
		      WHERE user_uid = $1
		        AND status = 'canceled'
		        AND end_date < now();`, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `UPDATE users
		      SET tier = 'free', subscription_status = 'none'
		      WHERE uid = $1
		        AND tier <> 'admin'
		        AND NOT EXISTS (
		            SELECT 1 FROM subscriptions
		            WHERE user_uid = $1 AND status = 'active'
		        );`, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
