// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля, тариф доступа
// и сведения о пробном периоде. Структура используется в бизнес‑логике
// и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID                string     // Уникальный идентификатор пользователя
	Email              string     // Электронная почта
	Username           string     // Имя пользователя (уникальное)
	PasswordHash       string     // Хэш пароля пользователя
	Role               string     // Роль пользователя, admin или user
	Tier               string     // Тариф доступа: anonymous, free, elevated, admin
	SubscriptionStatus string     // Статус подписки: trial, active, none
	TrialEndDate       *time.Time // Дата истечения пробного периода
	CreatedAt          time.Time  // Дата регистрации
}

// DummyRegister используется для приёма данных из JSON-запроса регистрации.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`       // Электронная почта
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`    // Пароль
}

// DummyLogin используется для приёма данных из JSON-запроса входа.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required"`          // Пароль
}
