// Package current реализует HTTP-обработчик запроса текущих условий на пляже.
//
// Доступ к данным определяется тарифом пользователя: обработчик вычисляет
// каноническое решение о доступе и сверяет его с таблицей возможностей.
package current

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/beachcast/internal/access"
	"github.com/magabrotheeeer/beachcast/internal/conditions"
	"github.com/magabrotheeeer/beachcast/internal/http/middlewarectx"
	"github.com/magabrotheeeer/beachcast/internal/http/response"
	"github.com/magabrotheeeer/beachcast/internal/lib/sl"
	"github.com/magabrotheeeer/beachcast/internal/metrics"
	"github.com/magabrotheeeer/beachcast/internal/models"
	"github.com/magabrotheeeer/beachcast/internal/quota"
)

// Service описывает интерфейс сервиса условий на пляже.
type Service interface {
	Current(ctx context.Context, spotID string) (*models.Conditions, error)
}

// Resolver описывает интерфейс вычисления решения о доступе пользователя.
type Resolver interface {
	Resolve(ctx context.Context, userUID string) (access.Decision, error)
}

// Views описывает счётчик просмотров деталей по пользователям.
type Views interface {
	TryConsume(userKey string, limit access.Limit) quota.ViewResult
}

// Handler управляет HTTP-запросами текущих условий.
type Handler struct {
	log      *slog.Logger
	service  Service
	resolver Resolver
	views    Views
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, resolver Resolver, views Views) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		resolver: resolver,
		views:    views,
	}
}

// ServeHTTP godoc
// @Summary Получить текущие условия
// @Description Возвращает текущие условия на указанном пляже: волны, температуру воды, ветер.
// @Tags Conditions
// @Produce  json
// @Security BearerAuth
// @Param spotID path string true "Идентификатор пляжа"
// @Success 200 {object} models.Conditions "Текущие условия"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Тариф не даёт доступа к данным"
// @Failure 429 {object} response.ErrorResponse "Бюджет внешнего источника исчерпан"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /conditions/{spotID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.conditions.current"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	spotID := chi.URLParam(r, "spotID")
	if spotID == "" {
		log.Error("spot id missing in request path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.CodeValidation, "spot id is required"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.CodeAuth, "unauthorized"))
		return
	}

	decision, err := h.resolver.Resolve(r.Context(), userUID)
	if err != nil {
		log.Error("failed to resolve access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.CodeInternal, "internal service error"))
		return
	}
	if !access.HasCapability(decision.Tier, access.CapCurrentConditions) {
		log.Info("tier has no access to current conditions",
			slog.String("useruid", userUID),
			slog.String("tier", string(decision.Tier)))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error(response.CodeAuth, "current tier has no access to conditions data"))
		return
	}

	viewLimit := access.LimitFor(decision.Tier, access.LimitDetailViewsPerDay)
	view := h.views.TryConsume(userUID, viewLimit)
	if !view.Allowed {
		log.Info("daily detail view limit reached",
			slog.String("useruid", userUID),
			slog.String("tier", string(decision.Tier)))
		metrics.QuotaDenied.WithLabelValues("detail_views").Inc()

		resp := response.Error(response.CodeQuota, "daily detail view limit reached")
		if wait := int(time.Until(view.ResetAt).Seconds()); wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(wait))
		}
		resp.Data = map[string]string{
			"reset_time": view.ResetAt.UTC().Format(time.RFC3339),
		}
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, resp)
		return
	}

	cond, err := h.service.Current(r.Context(), spotID)
	if err != nil {
		if errors.Is(err, conditions.ErrQuotaExceeded) {
			log.Warn("provider quota exceeded", slog.String("spot_id", spotID))
			metrics.QuotaDenied.WithLabelValues("marine_api").Inc()

			resp := response.Error(response.CodeQuota, "data source budget exhausted, try again later")
			var quotaErr *conditions.QuotaExceededError
			if errors.As(err, &quotaErr) && !quotaErr.ResetAt.IsZero() {
				if wait := int(time.Until(quotaErr.ResetAt).Seconds()); wait > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(wait))
				}
				resp.Data = map[string]string{
					"reset_time": quotaErr.ResetAt.UTC().Format(time.RFC3339),
				}
			}
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, resp)
			return
		}
		log.Error("failed to fetch conditions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.CodeInternal, "failed to fetch conditions"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(cond))
}
