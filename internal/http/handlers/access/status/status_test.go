package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/beachcast/internal/http/middlewarectx"
	"github.com/magabrotheeeer/beachcast/internal/models"
	"github.com/magabrotheeeer/beachcast/internal/storage/repository"
)

// MockService реализует интерфейс status.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetStatus(ctx context.Context, userUID string) (*models.AccessStatus, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.AccessStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockReconciler реализует интерфейс status.Reconciler
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		userUID        string
		setupMocks     func(*MockService, *MockReconciler)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное чтение статуса",
			userUID: "uid-123",
			setupMocks: func(s *MockService, r *MockReconciler) {
				r.On("Reconcile", mock.Anything, "uid-123").Return(false, nil)
				s.On("GetStatus", mock.Anything, "uid-123").Return(&models.AccessStatus{
					Tier:               "elevated",
					SubscriptionStatus: "active",
					HasElevatedAccess:  true,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tier":"elevated"`,
		},
		{
			name:    "понижение фиксируется до чтения статуса",
			userUID: "uid-456",
			setupMocks: func(s *MockService, r *MockReconciler) {
				r.On("Reconcile", mock.Anything, "uid-456").Return(true, nil)
				s.On("GetStatus", mock.Anything, "uid-456").Return(&models.AccessStatus{
					Tier:               "free",
					SubscriptionStatus: "none",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tier":"free"`,
		},
		{
			name:           "пользователь не авторизован",
			userUID:        "",
			setupMocks:     func(_ *MockService, _ *MockReconciler) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:    "пользователь не найден при примирении",
			userUID: "uid-404",
			setupMocks: func(_ *MockService, r *MockReconciler) {
				r.On("Reconcile", mock.Anything, "uid-404").Return(false, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"not_found"`,
		},
		{
			name:    "пользователь не найден при чтении статуса",
			userUID: "uid-405",
			setupMocks: func(s *MockService, r *MockReconciler) {
				r.On("Reconcile", mock.Anything, "uid-405").Return(false, nil)
				s.On("GetStatus", mock.Anything, "uid-405").Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"user not found"`,
		},
		{
			name:    "ошибка примирения состояния",
			userUID: "uid-789",
			setupMocks: func(_ *MockService, r *MockReconciler) {
				r.On("Reconcile", mock.Anything, "uid-789").Return(false, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"internal service error"`,
		},
		{
			name:    "ошибка сервиса статуса",
			userUID: "uid-999",
			setupMocks: func(s *MockService, r *MockReconciler) {
				r.On("Reconcile", mock.Anything, "uid-999").Return(false, nil)
				s.On("GetStatus", mock.Anything, "uid-999").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"internal service error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockReconciler := new(MockReconciler)
			tt.setupMocks(mockService, mockReconciler)

			handler := New(logger, mockService, mockReconciler)

			req := httptest.NewRequest(http.MethodGet, "/access/status", nil)
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
			mockReconciler.AssertExpectations(t)
		})
	}
}
