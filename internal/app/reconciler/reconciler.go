// Package reconciler собирает воркер реконсиляции: по расписанию приводит
// устаревшее состояние пользователей к каноническому и публикует события
// о понижениях в RabbitMQ.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/beachcast/internal/config"
	"github.com/magabrotheeeer/beachcast/internal/lib/sl"
	"github.com/magabrotheeeer/beachcast/internal/rabbitmq"
	reconcilerservice "github.com/magabrotheeeer/beachcast/internal/services/reconciler"
	"github.com/magabrotheeeer/beachcast/internal/storage/repository"
)

// sweepInterval — периодичность прохода реконсиляции.
const sweepInterval = 10 * time.Minute

// DowngradeEvent — сообщение о понижении пользователя для очереди уведомлений.
type DowngradeEvent struct {
	UserUID      string    `json:"user_uid"`
	DowngradedAt time.Time `json:"downgraded_at"`
}

// App представляет приложение воркера реконсиляции.
type App struct {
	service *reconcilerservice.Service
	conn    *amqp.Connection
	ch      *amqp.Channel
	db      *repository.Storage
	logger  *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр воркера реконсиляции.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	service := reconcilerservice.New(db, logger)

	return &App{
		service: service,
		conn:    conn,
		ch:      ch,
		db:      db,
		logger:  logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает цикл реконсиляции до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	a.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			a.sweep(ctx)
		case <-ctx.Done():
			a.logger.Info("shutting down reconciler worker")
			closeResources(a.ch, a.conn, a.logger)
			_ = a.db.DB.Close()
			return nil
		}
	}
}

// sweep выполняет один проход реконсиляции и публикует события о понижениях.
func (a *App) sweep(ctx context.Context) {
	downgraded := a.service.ReconcileAll(ctx)
	if len(downgraded) == 0 {
		return
	}

	a.logger.Info("reconcile sweep finished", slog.Int("downgraded", len(downgraded)))

	now := time.Now().UTC()
	for _, uid := range downgraded {
		event := DowngradeEvent{UserUID: uid, DowngradedAt: now}
		if err := rabbitmq.PublishMessage(a.ch, "notifications", "downgraded", event); err != nil {
			a.logger.Error("failed to publish downgrade event",
				slog.String("user_uid", uid), sl.Err(err))
		}
	}
}
