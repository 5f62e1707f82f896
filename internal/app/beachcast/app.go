// Package beachcast собирает HTTP-приложение сервиса: хранилище, кеш,
// платёжный шлюз, поставщик морских данных и все HTTP-обработчики.
package beachcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/beachcast/internal/access"
	"github.com/magabrotheeeer/beachcast/internal/billinggateway"
	"github.com/magabrotheeeer/beachcast/internal/cache"
	"github.com/magabrotheeeer/beachcast/internal/conditions"
	"github.com/magabrotheeeer/beachcast/internal/config"
	"github.com/magabrotheeeer/beachcast/internal/lib/jwt"
	"github.com/magabrotheeeer/beachcast/internal/migrations"
	"github.com/magabrotheeeer/beachcast/internal/quota"
	"github.com/magabrotheeeer/beachcast/internal/ratelimit"
	authservice "github.com/magabrotheeeer/beachcast/internal/services/auth"
	billingservice "github.com/magabrotheeeer/beachcast/internal/services/billing"
	reconcilerservice "github.com/magabrotheeeer/beachcast/internal/services/reconciler"
	statusservice "github.com/magabrotheeeer/beachcast/internal/services/status"
	"github.com/magabrotheeeer/beachcast/internal/storage/repository"
)

// Имя ресурса внешнего поставщика в леджере квот.
const marineResource = "marine_api"

// App представляет HTTP-приложение сервиса.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение из конфигурации: проверяет таблицу доступа,
// поднимает хранилище с миграциями, кеш и все сервисы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := access.ValidatePolicy(); err != nil {
		return nil, fmt.Errorf("access policy is incomplete: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	limiter := ratelimit.New(cfg.MaxRequests, cfg.Window)
	if cfg.SharedRateLimit {
		limiter = ratelimit.NewWithStore(
			ratelimit.NewRedisStore(cacheRedis.Db), cfg.MaxRequests, cfg.Window)
	}

	ledger := quota.NewLedger(map[string]quota.Limits{
		marineResource: {Daily: cfg.DailyLimit, Monthly: cfg.MonthlyLimit},
	})
	views := quota.NewViewCounter()

	gateway := billinggateway.NewClient(cfg.ShopID, cfg.SecretKey, cfg.GatewayTimeout)
	provider := conditions.NewProviderClient(cfg.ProviderAPIURL, cfg.ProviderAPIKey, cfg.ProviderTimeout)

	authService := authservice.NewAuthService(db, jwtMaker)
	statusService := statusservice.New(db, logger)
	reconcilerService := reconcilerservice.New(db, logger)
	billingService := billingservice.New(db, gateway, logger)
	conditionsService := conditions.New(provider, cacheRedis, ledger, marineResource, cfg.CacheTTL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		JWTMaker:      jwtMaker,
		Limiter:       limiter,
		Auth:          authService,
		Status:        statusService,
		Reconciler:    reconcilerService,
		Billing:       billingService,
		Conditions:    conditionsService,
		Ledger:        ledger,
		Views:         views,
		WebhookSecret: cfg.WebhookSecret,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
