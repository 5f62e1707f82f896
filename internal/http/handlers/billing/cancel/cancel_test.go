package cancel

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
	"github.com/magabrotheeeer/beachcast/internal/storage/repository"
)

// MockService реализует интерфейс cancel.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Cancel(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCancelHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	canceledAt := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешная отмена с льготным периодом",
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, "uid-123").Return(&models.Subscription{
					ID:         7,
					Status:     models.SubscriptionStatusCanceled,
					EndDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
					CanceledAt: &canceledAt,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"canceled"`,
		},
		{
			name:           "пользователь не авторизован",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:    "нет активной подписки",
			userUID: "uid-456",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, "uid-456").
					Return(nil, repository.ErrNoActiveSubscription)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"no active subscription"`,
		},
		{
			name:    "ошибка сервиса отмены",
			userUID: "uid-789",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, "uid-789").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"failed to cancel subscription"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/billing/cancel", nil)
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
