package confirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/beachcast/internal/http/middlewarectx"
	"github.com/magabrotheeeer/beachcast/internal/models"
	"github.com/magabrotheeeer/beachcast/internal/services/billing"
	"github.com/magabrotheeeer/beachcast/internal/storage/repository"
)

// MockService реализует интерфейс confirm.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Confirm(ctx context.Context, userUID string, req models.DummyConfirm) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestConfirmHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное подтверждение оплаты",
			body:    `{"payment_id":"pay-1","plan":"monthly"}`,
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "uid-123", models.DummyConfirm{
					PaymentID: "pay-1",
					Plan:      "monthly",
				}).Return(&models.Subscription{
					ID:      7,
					Status:  models.SubscriptionStatusActive,
					EndDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"active"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"payment_id":`,
			userUID:        "uid-123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "неподдерживаемый период оплаты",
			body:           `{"payment_id":"pay-1","plan":"weekly"}`,
			userUID:        "uid-123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"code":"validation_error"`,
		},
		{
			name:           "пользователь не авторизован",
			body:           `{"payment_id":"pay-1","plan":"monthly"}`,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:    "платёжный шлюз недоступен",
			body:    `{"payment_id":"pay-1","plan":"monthly"}`,
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "uid-123", mock.Anything).
					Return(nil, billing.ErrUpstreamBilling)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `"code":"upstream_billing_error"`,
		},
		{
			name:    "платёж не завершён",
			body:    `{"payment_id":"pay-1","plan":"monthly"}`,
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "uid-123", mock.Anything).
					Return(nil, billing.ErrPaymentNotSucceeded)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"payment is not completed"`,
		},
		{
			name:    "пользователь не найден",
			body:    `{"payment_id":"pay-1","plan":"monthly"}`,
			userUID: "uid-404",
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "uid-404", mock.Anything).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"user not found"`,
		},
		{
			name:    "ошибка сервиса подтверждения",
			body:    `{"payment_id":"pay-1","plan":"monthly"}`,
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "uid-123", mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"failed to confirm payment"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/billing/confirm", strings.NewReader(tt.body))
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
