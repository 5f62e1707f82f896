// Package webhook реализует HTTP-обработчик уведомлений платёжного шлюза.
//
// Перед обработкой тело запроса проверяется по HMAC-подписи из заголовка
// X-Api-Signature. Неизвестные события подтверждаются без обработки,
// чтобы шлюз не повторял доставку.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/beachcast/internal/lib/sl"
	"github.com/magabrotheeeer/beachcast/internal/metrics"
	"github.com/magabrotheeeer/beachcast/internal/models"
)

// Service описывает интерфейс обработки события платёжного шлюза.
type Service interface {
	ProcessWebhookEvent(ctx context.Context, event *models.WebhookEvent) error
}

// Handler управляет HTTP-запросами вебхука платёжного шлюза.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

// New создает новый Handler с переданными логгером, сервисом и секретом подписи.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Payload — форма уведомления платёжного шлюза.
type Payload struct {
	Event  string `json:"event"`
	Object struct {
		ID     string `json:"id"`     // payment ID
		Status string `json:"status"` // статус платежа
		Amount struct {
			Value    string `json:"value"`    // сумма в строке, например "100.00"
			Currency string `json:"currency"` // валюта
		} `json:"amount"`
		Metadata map[string]string `json:"metadata"` // email, plan и др.
	} `json:"object"`
}

// verifySignature проверяет HMAC-подпись тела запроса (заголовок X-Api-Signature).
func (h *Handler) verifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// ServeHTTP godoc
// @Summary Принять уведомление платёжного шлюза
// @Description Проверяет подпись уведомления и обновляет подписку пользователя по событию платежа.
// @Tags Billing
// @Accept  json
// @Param X-Api-Signature header string true "HMAC-подпись тела запроса"
// @Success 200 "Уведомление принято"
// @Failure 400 "Некорректное тело уведомления"
// @Failure 401 "Неверная подпись"
// @Failure 500 "Ошибка обработки"
// @Router /billing/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer func() { _ = r.Body.Close() }()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(h.webhookSecret, body, signature) {
		log.Error("invalid or missing webhook signature")
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	event := &models.WebhookEvent{
		EventType: strings.ToLower(payload.Event),
		Email:     payload.Object.Metadata["email"],
		PaymentID: payload.Object.ID,
		Plan:      payload.Object.Metadata["plan"],
	}
	if payload.Object.Amount.Value != "" {
		amount, err := strconv.ParseFloat(payload.Object.Amount.Value, 64)
		if err != nil {
			log.Error("failed to parse payment amount", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		event.Amount = amount
	}

	if err := h.service.ProcessWebhookEvent(r.Context(), event); err != nil {
		log.Error("failed to process webhook event", sl.Err(err))
		metrics.WebhookEvents.WithLabelValues(event.EventType, "failed").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("webhook processed successfully",
		slog.String("event", payload.Event),
		slog.String("payment_id", payload.Object.ID))
	metrics.WebhookEvents.WithLabelValues(event.EventType, "processed").Inc()
	w.WriteHeader(http.StatusOK)
}
