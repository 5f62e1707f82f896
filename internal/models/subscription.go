// Package models содержит доменные структуры, описывающие подписку,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Статусы подписки. У пользователя может быть не более одной подписки
// в статусе active одновременно (частичный уникальный индекс в хранилище).
const (
	SubscriptionStatusTrial    = "trial"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

// Периоды оплаты подписки.
const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)

// Subscription представляет оплаченную подписку пользователя.
// Поле CanceledAt равно nil, пока подписка не отменена. После отмены
// доступ сохраняется до EndDate (льготный период).
type Subscription struct {
	ID           int        // Идентификатор подписки
	UserUID      string     // Идентификатор пользователя-владельца
	Status       string     // trial, active, canceled, expired
	BillingCycle string     // monthly или yearly
	StartDate    time.Time  // Дата начала оплаченного периода
	EndDate      time.Time  // Дата окончания оплаченного периода
	CanceledAt   *time.Time // Дата отмены подписки
	PaymentID    string     // Идентификатор платежа в платёжном шлюзе
	CreatedAt    time.Time  // Дата создания записи
}

// DummyConfirm используется для приёма данных из JSON-запроса
// подтверждения оплаты.
type DummyConfirm struct {
	PaymentID string `json:"payment_id" validate:"required"`              // Идентификатор платежа
	Plan      string `json:"plan" validate:"required,oneof=monthly yearly"` // Период оплаты
}

// SubscriptionInfo — представление подписки в ответе статуса доступа.
// NextBillingDate равно nil для отменённых и истёкших подписок.
type SubscriptionInfo struct {
	Status          string     `json:"status"`
	BillingCycle    string     `json:"billing_cycle"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	CanceledAt      *time.Time `json:"canceled_at,omitempty"`
	NextBillingDate *time.Time `json:"next_billing_date"`
}
