package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/beachcast/internal/models"
)

func TestResolve(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	trialEnd := now.AddDate(0, 0, 5)
	trialEndPast := now.AddDate(0, 0, -2)
	subEnd := now.AddDate(0, 1, 0)
	subEndPast := now.AddDate(0, 0, -1)

	tests := []struct {
		name string
		user *models.User
		sub  *models.Subscription
		want Decision
	}{
		{
			name: "активный пробный период",
			user: &models.User{
				Tier:               "free",
				SubscriptionStatus: models.SubscriptionStatusTrial,
				TrialEndDate:       &trialEnd,
			},
			want: Decision{
				Tier:              TierElevated,
				State:             StateTrial,
				IsInTrial:         true,
				HasElevatedAccess: true,
				DaysRemaining:     5,
			},
		},
		{
			name: "активная подписка важнее пробного периода",
			user: &models.User{
				Tier:               "elevated",
				SubscriptionStatus: models.SubscriptionStatusActive,
				TrialEndDate:       &trialEnd,
			},
			sub: &models.Subscription{
				Status:  models.SubscriptionStatusActive,
				EndDate: subEnd,
			},
			want: Decision{
				Tier:              TierElevated,
				State:             StateActive,
				HasElevatedAccess: true,
				DaysRemaining:     30,
			},
		},
		{
			name: "льготный период после отмены",
			user: &models.User{Tier: "elevated", SubscriptionStatus: "none"},
			sub: &models.Subscription{
				Status:  models.SubscriptionStatusCanceled,
				EndDate: now.Add(36 * time.Hour),
			},
			want: Decision{
				Tier:              TierElevated,
				State:             StateCancelGrace,
				HasElevatedAccess: true,
				DaysRemaining:     2,
			},
		},
		{
			name: "отменённая подписка после даты окончания",
			user: &models.User{Tier: "elevated", SubscriptionStatus: "none"},
			sub: &models.Subscription{
				Status:  models.SubscriptionStatusCanceled,
				EndDate: subEndPast,
			},
			want: Decision{Tier: TierFree, State: StateExpired},
		},
		{
			name: "устаревший платный тариф не переживает истечение подписки",
			user: &models.User{Tier: "pro", SubscriptionStatus: "none"},
			sub: &models.Subscription{
				Status:  models.SubscriptionStatusCanceled,
				EndDate: subEndPast,
			},
			want: Decision{Tier: TierFree, State: StateExpired},
		},
		{
			name: "истёкший пробный период",
			user: &models.User{
				Tier:               "free",
				SubscriptionStatus: models.SubscriptionStatusTrial,
				TrialEndDate:       &trialEndPast,
			},
			want: Decision{Tier: TierFree, State: StateExpired},
		},
		{
			name: "пользователь без прав",
			user: &models.User{Tier: "free", SubscriptionStatus: "none"},
			want: Decision{Tier: TierFree, State: StateNone},
		},
		{
			name: "неизвестный тариф не даёт повышенного доступа",
			user: &models.User{Tier: "superuser", SubscriptionStatus: "none"},
			want: Decision{Tier: TierAnonymous, State: StateNone},
		},
		{
			name: "неизвестный тариф со статусом trial не даёт пробного периода",
			user: &models.User{
				Tier:               "superuser",
				SubscriptionStatus: models.SubscriptionStatusTrial,
				TrialEndDate:       &trialEnd,
			},
			want: Decision{Tier: TierAnonymous, State: StateExpired},
		},
		{
			name: "администратор без подписки имеет повышенный доступ",
			user: &models.User{Tier: "admin", SubscriptionStatus: "none"},
			want: Decision{
				Tier:              TierAdmin,
				State:             StateNone,
				HasElevatedAccess: true,
			},
		},
		{
			name: "nil пользователь — самый ограниченный тариф",
			want: Decision{Tier: TierAnonymous, State: StateNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.user, tt.sub, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Pure(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	trialEnd := now.AddDate(0, 0, 3)
	user := &models.User{
		Tier:               "free",
		SubscriptionStatus: models.SubscriptionStatusTrial,
		TrialEndDate:       &trialEnd,
	}

	first := Resolve(user, nil, now)
	second := Resolve(user, nil, now)
	assert.Equal(t, first, second)
}

func TestCeilDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		until time.Time
		want  int
	}{
		{"ровно пять суток", now.AddDate(0, 0, 5), 5},
		{"неполные сутки округляются вверх", now.Add(1 * time.Hour), 1},
		{"чуть больше суток", now.Add(25 * time.Hour), 2},
		{"прошедшая дата даёт ноль", now.Add(-time.Hour), 0},
		{"совпадающий момент даёт ноль", now, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ceilDays(now, tt.until))
		})
	}
}
