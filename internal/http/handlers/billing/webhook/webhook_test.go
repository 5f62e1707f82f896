package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/beachcast/internal/models"
)

const testSecret = "webhook-secret"

// MockService реализует интерфейс webhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ProcessWebhookEvent(ctx context.Context, event *models.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	succeededBody := `{"event":"payment.succeeded","object":{"id":"pay-1","status":"succeeded",` +
		`"amount":{"value":"100.00","currency":"RUB"},"metadata":{"email":"surfer@example.com","plan":"monthly"}}}`

	tests := []struct {
		name           string
		body           string
		signature      string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name:      "успешная обработка оплаты",
			body:      succeededBody,
			signature: sign(testSecret, []byte(succeededBody)),
			setupMock: func(m *MockService) {
				m.On("ProcessWebhookEvent", mock.Anything, &models.WebhookEvent{
					EventType: "payment.succeeded",
					Email:     "surfer@example.com",
					PaymentID: "pay-1",
					Amount:    100.00,
					Plan:      "monthly",
				}).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "отсутствует подпись",
			body:           succeededBody,
			signature:      "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "неверная подпись",
			body:           succeededBody,
			signature:      sign("wrong-secret", []byte(succeededBody)),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "некорректное тело уведомления",
			body:           `{"event":`,
			signature:      sign(testSecret, []byte(`{"event":`)),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:      "ошибка обработки события",
			body:      succeededBody,
			signature: sign(testSecret, []byte(succeededBody)),
			setupMock: func(m *MockService) {
				m.On("ProcessWebhookEvent", mock.Anything, mock.Anything).
					Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, testSecret)

			req := httptest.NewRequest(http.MethodPost, "/billing/webhook", strings.NewReader(tt.body))
			if tt.signature != "" {
				req.Header.Set("X-Api-Signature", tt.signature)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
