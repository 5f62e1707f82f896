package access

import (
	"time"

	"github.com/magabrotheeeer/beachcast/internal/models"
)

// State — каноническое состояние доступа, вычисленное из сохранённых
// данных и текущего момента времени.
type State string

// Состояния доступа.
const (
	StateTrial       State = "trial"        // Пробный период активен
	StateActive      State = "active"       // Есть активная подписка
	StateCancelGrace State = "cancel_grace" // Подписка отменена, льготный период не истёк
	StateExpired     State = "expired"      // Пробный или льготный период истёк
	StateNone        State = "none"         // Права отсутствуют
)

// Decision — результат разрешения доступа. Производное значение: всегда
// вычислимо заново из User, Subscription и момента времени, само по себе
// источником истины не является и нигде не сохраняется.
type Decision struct {
	Tier              Tier  // Канонический тариф для авторизации
	State             State // Состояние доступа
	IsInTrial         bool  // Пользователь в пробном периоде
	HasElevatedAccess bool  // Есть повышенный доступ
	DaysRemaining     int   // Дней до конца пробного или льготного периода
}

// Resolve вычисляет каноническое решение о доступе. Функция чистая:
// детерминирована, не имеет побочных эффектов и может вызываться сколь
// угодно часто, ничего не меняя в хранилище.
//
// Приоритеты: active всегда важнее пробного периода, даже если
// trial_end_date ещё в будущем; cancel_grace важнее expired, пока
// now < end_date. Неизвестный сохранённый тариф даёт anonymous и никогда
// не повышает доступ.
func Resolve(user *models.User, sub *models.Subscription, now time.Time) Decision {
	if user == nil {
		return Decision{Tier: TierAnonymous, State: StateNone}
	}

	stored := ParseTier(user.Tier)
	isAdmin := stored == TierAdmin

	var d Decision
	switch {
	case sub != nil && sub.Status == models.SubscriptionStatusActive:
		d = Decision{
			Tier:              TierElevated,
			State:             StateActive,
			HasElevatedAccess: true,
			DaysRemaining:     ceilDays(now, sub.EndDate),
		}
	case sub != nil && sub.Status == models.SubscriptionStatusCanceled && now.Before(sub.EndDate):
		d = Decision{
			Tier:              TierElevated,
			State:             StateCancelGrace,
			HasElevatedAccess: true,
			DaysRemaining:     ceilDays(now, sub.EndDate),
		}
	case inTrial(user, now):
		d = Decision{
			Tier:              TierElevated,
			State:             StateTrial,
			IsInTrial:         true,
			HasElevatedAccess: true,
			DaysRemaining:     ceilDays(now, *user.TrialEndDate),
		}
	case hadEntitlement(user, sub):
		d = Decision{Tier: lapsedTier(stored), State: StateExpired}
	default:
		d = Decision{Tier: lapsedTier(stored), State: StateNone}
	}

	if isAdmin {
		d.Tier = TierAdmin
		d.HasElevatedAccess = true
	}
	return d
}

// inTrial проверяет, действует ли пробный период: статус trial, тариф
// free и дата окончания в будущем. Требование тарифа free закрывает
// лазейку: испорченное значение тарифа вместе со статусом trial не
// должно давать повышенный доступ.
func inTrial(user *models.User, now time.Time) bool {
	return user.SubscriptionStatus == models.SubscriptionStatusTrial &&
		ParseTier(user.Tier) == TierFree &&
		user.TrialEndDate != nil &&
		now.Before(*user.TrialEndDate)
}

// lapsedTier приводит сохранённый тариф к каноническому после истечения
// прав: elevated в хранилище — устаревшее значение, пока реконсилятор его
// не понизил, и само по себе прав уже не даёт.
func lapsedTier(stored Tier) Tier {
	if stored == TierElevated {
		return TierFree
	}
	return stored
}

// hadEntitlement отличает expired от none: когда-то у пользователя были
// права (пробный период или подписка), но они истекли.
func hadEntitlement(user *models.User, sub *models.Subscription) bool {
	return user.TrialEndDate != nil || sub != nil
}

// ceilDays считает оставшиеся дни делением вверх остатка в миллисекундах
// на сутки. Никогда не отрицательно.
func ceilDays(now, until time.Time) int {
	delta := until.Sub(now)
	if delta <= 0 {
		return 0
	}
	const day = 24 * time.Hour
	return int((delta + day - 1) / day)
}
