// Package cancel реализует HTTP-обработчик отмены подписки.
//
// Отмена не убирает доступ немедленно: подписка переходит в льготный
// период и действует до конца оплаченного срока.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/beachcast/internal/http/middlewarectx"
	"github.com/magabrotheeeer/beachcast/internal/http/response"
	"github.com/magabrotheeeer/beachcast/internal/lib/sl"
	"github.com/magabrotheeeer/beachcast/internal/models"
	"github.com/magabrotheeeer/beachcast/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Cancel(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Handler управляет HTTP-запросами отмены подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Description Отменяет активную подписку. Доступ сохраняется до конца оплаченного периода.
// @Tags Billing
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Подписка отменена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Нет активной подписки"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.CodeAuth, "unauthorized"))
		return
	}

	sub, err := h.service.Cancel(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveSubscription) {
			log.Info("no active subscription to cancel", slog.String("useruid", userUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(response.CodeConflict, "no active subscription"))
			return
		}
		log.Error("failed to cancel subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.CodeInternal, "failed to cancel subscription"))
		return
	}

	log.Info("subscription canceled",
		slog.String("useruid", userUID),
		slog.Time("access_until", sub.EndDate))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":       sub.Status,
		"access_until": sub.EndDate,
	}))
}
