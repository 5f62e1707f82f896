// Package quota реализует HTTP-обработчик административного просмотра
// расхода бюджетов внешних ресурсов.
package quota

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/beachcast/internal/http/response"
	"github.com/magabrotheeeer/beachcast/internal/metrics"
	quotaledger "github.com/magabrotheeeer/beachcast/internal/quota"
)

// Ledger описывает интерфейс чтения расхода бюджетов.
type Ledger interface {
	Snapshot() map[string]quotaledger.Usage
}

// Handler управляет HTTP-запросами просмотра расхода бюджетов.
type Handler struct {
	log    *slog.Logger
	ledger Ledger
}

// New создает новый Handler с переданными логгером и леджером.
func New(log *slog.Logger, ledger Ledger) *Handler {
	return &Handler{
		log:    log,
		ledger: ledger,
	}
}

// ServeHTTP godoc
// @Summary Просмотреть расход бюджетов
// @Description Возвращает дневной и месячный расход по каждому внешнему ресурсу с моментами сброса окон.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]quota.Usage "Расход по ресурсам"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Router /admin/quota [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.quota"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	snapshot := h.ledger.Snapshot()
	for resource, usage := range snapshot {
		metrics.QuotaUsageRatio.WithLabelValues(resource).Set(usage.DailyPercent / 100)
	}

	log.Info("quota snapshot served", slog.Int("resources", len(snapshot)))
	render.JSON(w, r, response.StatusOKWithData(snapshot))
}
