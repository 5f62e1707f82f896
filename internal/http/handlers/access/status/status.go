// Package status реализует HTTP-обработчик запроса статуса доступа пользователя.
//
// Перед вычислением статуса обработчик примиряет сохранённое состояние
// учётной записи с каноническим: истёкший пробный период или льготный
// период отменённой подписки фиксируются в хранилище до формирования ответа.
package status

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

// Service описывает интерфейс сервиса статуса доступа.
type Service interface {
	GetStatus(ctx context.Context, userUID string) (*models.AccessStatus, error)
}

// Reconciler описывает интерфейс примирения сохранённого состояния
// с каноническим перед чтением статуса.
type Reconciler interface {
	Reconcile(ctx context.Context, userUID string) (bool, error)
}

// Handler управляет HTTP-запросами статуса доступа.
type Handler struct {
	log        *slog.Logger
	service    Service
	reconciler Reconciler
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, reconciler Reconciler) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		reconciler: reconciler,
	}
}

// ServeHTTP godoc
// @Summary Получить статус доступа
// @Description Возвращает тариф, статус подписки и сведения о пробном периоде текущего пользователя.
// @Tags Access
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.AccessStatus "Статус доступа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /access/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.status"
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

	downgraded, err := h.reconciler.Reconcile(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("user not found", slog.String("useruid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(response.CodeNotFound, "user not found"))
			return
		}
		log.Error("failed to reconcile user state", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.CodeInternal, "internal service error"))
		return
	}
	if downgraded {
		log.Info("user downgraded during status read", slog.String("useruid", userUID))
	}

	status, err := h.service.GetStatus(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("user not found", slog.String("useruid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(response.CodeNotFound, "user not found"))
			return
		}
		log.Error("failed to get access status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.CodeInternal, "internal service error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(status))
}
