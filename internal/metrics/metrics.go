// Package metrics содержит prometheus-коллекторы сервиса. Отказы по
// квоте и частоте — ожидаемые события, поэтому они считаются счётчиками,
// а не логируются как ошибки.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RateLimitRejected считает отклонённые ограничителем частоты запросы.
var RateLimitRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "beachcast_ratelimit_rejected_total",
	Help: "Requests rejected by the fixed-window rate limiter.",
}, []string{"route_class"})

// QuotaDenied считает отказы леджера квот по ресурсам.
var QuotaDenied = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "beachcast_quota_denied_total",
	Help: "External provider calls denied by the quota ledger.",
}, []string{"resource"})

// QuotaUsageRatio отражает долю израсходованного дневного бюджета ресурса.
var QuotaUsageRatio = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "beachcast_quota_daily_usage_ratio",
	Help: "Fraction of the daily quota consumed per resource.",
}, []string{"resource"})

// WebhookEvents считает обработанные события платёжного шлюза.
var WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "beachcast_billing_webhook_events_total",
	Help: "Billing gateway webhook events by type and outcome.",
}, []string{"event_type", "outcome"})
