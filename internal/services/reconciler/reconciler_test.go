package reconciler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/beachcast/internal/models"
	"github.com/magabrotheeeer/beachcast/internal/services/reconciler"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetCurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) ExpireTrial(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) ExpireLapsedSubscription(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) FindLapsedUsers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestReconciler_Reconcile(t *testing.T) {
	now := time.Now().UTC()

	t.Run("истекший пробный период фиксируется в хранилище", func(t *testing.T) {
		repo := new(RepoMock)
		lapsedTrialEnd := now.AddDate(0, 0, -1)
		repo.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID:                "uid-1",
			Role:               "user",
			Tier:               "free",
			SubscriptionStatus: models.SubscriptionStatusTrial,
			TrialEndDate:       &lapsedTrialEnd,
		}, nil)
		repo.On("GetCurrentSubscription", mock.Anything, "uid-1").Return(nil, nil)
		repo.On("ExpireTrial", mock.Anything, "uid-1").Return(true, nil)

		service := reconciler.New(repo, newNoopLogger())
		changed, err := service.Reconcile(context.Background(), "uid-1")

		require.NoError(t, err)
		assert.True(t, changed)
		repo.AssertExpectations(t)
	})

	t.Run("повторный вызов на уже пониженном пользователе ничего не меняет", func(t *testing.T) {
		repo := new(RepoMock)
		lapsedTrialEnd := now.AddDate(0, 0, -1)
		repo.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID:                "uid-1",
			Role:               "user",
			Tier:               "free",
			SubscriptionStatus: models.SubscriptionStatusTrial,
			TrialEndDate:       &lapsedTrialEnd,
		}, nil)
		repo.On("GetCurrentSubscription", mock.Anything, "uid-1").Return(nil, nil)
		// условное обновление не прошло: состояние уже изменено кем-то другим
		repo.On("ExpireTrial", mock.Anything, "uid-1").Return(false, nil)

		service := reconciler.New(repo, newNoopLogger())
		changed, err := service.Reconcile(context.Background(), "uid-1")

		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("отмененная подписка после конца периода понижает пользователя", func(t *testing.T) {
		repo := new(RepoMock)
		canceledAt := now.AddDate(0, 0, -20)
		repo.On("GetUser", mock.Anything, "uid-2").Return(&models.User{
			UID:                "uid-2",
			Role:               "user",
			Tier:               "elevated",
			SubscriptionStatus: "active",
		}, nil)
		repo.On("GetCurrentSubscription", mock.Anything, "uid-2").Return(&models.Subscription{
			Status:     models.SubscriptionStatusCanceled,
			EndDate:    now.AddDate(0, 0, -1),
			CanceledAt: &canceledAt,
		}, nil)
		repo.On("ExpireLapsedSubscription", mock.Anything, "uid-2").Return(true, nil)

		service := reconciler.New(repo, newNoopLogger())
		changed, err := service.Reconcile(context.Background(), "uid-2")

		require.NoError(t, err)
		assert.True(t, changed)
		repo.AssertExpectations(t)
	})

	t.Run("льготный период еще идет, записи не выполняются", func(t *testing.T) {
		repo := new(RepoMock)
		canceledAt := now.AddDate(0, 0, -2)
		repo.On("GetUser", mock.Anything, "uid-3").Return(&models.User{
			UID:                "uid-3",
			Role:               "user",
			Tier:               "elevated",
			SubscriptionStatus: "active",
		}, nil)
		repo.On("GetCurrentSubscription", mock.Anything, "uid-3").Return(&models.Subscription{
			Status:     models.SubscriptionStatusCanceled,
			EndDate:    now.AddDate(0, 0, 10),
			CanceledAt: &canceledAt,
		}, nil)

		service := reconciler.New(repo, newNoopLogger())
		changed, err := service.Reconcile(context.Background(), "uid-3")

		require.NoError(t, err)
		assert.False(t, changed)
		repo.AssertNotCalled(t, "ExpireTrial", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "ExpireLapsedSubscription", mock.Anything, mock.Anything)
	})

	t.Run("активная подписка не трогается", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUser", mock.Anything, "uid-4").Return(&models.User{
			UID:                "uid-4",
			Role:               "user",
			Tier:               "elevated",
			SubscriptionStatus: "active",
		}, nil)
		repo.On("GetCurrentSubscription", mock.Anything, "uid-4").Return(&models.Subscription{
			Status:  models.SubscriptionStatusActive,
			EndDate: now.AddDate(0, 0, 20),
		}, nil)

		service := reconciler.New(repo, newNoopLogger())
		changed, err := service.Reconcile(context.Background(), "uid-4")

		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("ошибка чтения пользователя", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUser", mock.Anything, "uid-5").Return(nil, errors.New("db error"))

		service := reconciler.New(repo, newNoopLogger())
		_, err := service.Reconcile(context.Background(), "uid-5")

		assert.Error(t, err)
	})
}

func TestReconciler_ReconcileAll(t *testing.T) {
	now := time.Now().UTC()

	t.Run("возвращает только фактически пониженных", func(t *testing.T) {
		repo := new(RepoMock)
		lapsedTrialEnd := now.AddDate(0, 0, -1)

		repo.On("FindLapsedUsers", mock.Anything).Return([]string{"uid-1", "uid-2"}, nil)

		repo.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID:                "uid-1",
			Role:               "user",
			Tier:               "free",
			SubscriptionStatus: models.SubscriptionStatusTrial,
			TrialEndDate:       &lapsedTrialEnd,
		}, nil)
		repo.On("GetCurrentSubscription", mock.Anything, "uid-1").Return(nil, nil)
		repo.On("ExpireTrial", mock.Anything, "uid-1").Return(true, nil)

		// второй пользователь уже обработан конкурентным вызовом
		repo.On("GetUser", mock.Anything, "uid-2").Return(&models.User{
			UID:                "uid-2",
			Role:               "user",
			Tier:               "free",
			SubscriptionStatus: models.SubscriptionStatusTrial,
			TrialEndDate:       &lapsedTrialEnd,
		}, nil)
		repo.On("GetCurrentSubscription", mock.Anything, "uid-2").Return(nil, nil)
		repo.On("ExpireTrial", mock.Anything, "uid-2").Return(false, nil)

		service := reconciler.New(repo, newNoopLogger())
		downgraded := service.ReconcileAll(context.Background())

		assert.Equal(t, []string{"uid-1"}, downgraded)
	})

	t.Run("ошибка поиска не роняет воркер", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("FindLapsedUsers", mock.Anything).Return(nil, errors.New("db error"))

		service := reconciler.New(repo, newNoopLogger())
		downgraded := service.ReconcileAll(context.Background())

		assert.Nil(t, downgraded)
	})
}
