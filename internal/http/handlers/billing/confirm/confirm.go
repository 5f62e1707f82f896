// Package confirm реализует HTTP-обработчик подтверждения оплаты подписки.
//
// Handler принимает идентификатор платежа, валидирует запрос, сверяет
// платёж с платёжным шлюзом через бизнес-логику и активирует подписку.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/beachcast/internal/http/middlewarectx"
	"github.com/magabrotheeeer/beachcast/internal/http/response"
	"github.com/magabrotheeeer/beachcast/internal/lib/sl"
	"github.com/magabrotheeeer/beachcast/internal/models"
	"github.com/magabrotheeeer/beachcast/internal/services/billing"
	"github.com/magabrotheeeer/beachcast/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	Confirm(ctx context.Context, userUID string, req models.DummyConfirm) (*models.Subscription, error)
}

// Handler управляет HTTP-запросами подтверждения оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату подписки
// @Description Проверяет платёж у платёжного шлюза и активирует подписку пользователя.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyConfirm true "Данные платежа"
// @Success 200 {object} map[string]any "Подписка активирована"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Платёж не завершён"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Router /billing/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyConfirm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.CodeValidation, "invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("payment_id", req.PaymentID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.CodeAuth, "unauthorized"))
		return
	}

	sub, err := h.service.Confirm(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrUpstreamBilling):
			log.Error("billing gateway unavailable", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(response.CodeUpstream, "billing gateway unavailable"))
		case errors.Is(err, billing.ErrPaymentNotSucceeded):
			log.Info("payment not succeeded", slog.String("payment_id", req.PaymentID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(response.CodeConflict, "payment is not completed"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(response.CodeNotFound, "user not found"))
		default:
			log.Error("failed to confirm payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.CodeInternal, "failed to confirm payment"))
		}
		return
	}

	log.Info("subscription activated",
		slog.String("useruid", userUID),
		slog.String("payment_id", req.PaymentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription_id": sub.ID,
		"status":          sub.Status,
		"end_date":        sub.EndDate,
	}))
}
