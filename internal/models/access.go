package models

// AccessStatus — ответ на запрос статуса доступа. Каноническое состояние
// вычисляется резолвером из сохранённых данных и текущего момента,
// здесь оно только сериализуется.
type AccessStatus struct {
	Tier               string            `json:"tier"`
	SubscriptionStatus string            `json:"subscription_status"`
	IsInTrial          bool              `json:"is_in_trial"`
	TrialDaysRemaining int               `json:"trial_days_remaining"`
	HasElevatedAccess  bool              `json:"has_elevated_access"`
	Subscription       *SubscriptionInfo `json:"subscription,omitempty"`
}

// WebhookEvent — событие платёжного шлюза, доставленное вебхуком.
type WebhookEvent struct {
	EventType string  `json:"event_type"`
	Email     string  `json:"email"`
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Plan      string  `json:"plan,omitempty"` // monthly или yearly, по умолчанию monthly
}
