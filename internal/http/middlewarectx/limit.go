package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/beachcast/internal/http/response"
	"github.com/magabrotheeeer/beachcast/internal/lib/sl"
	"github.com/magabrotheeeer/beachcast/internal/metrics"
	"github.com/magabrotheeeer/beachcast/internal/ratelimit"
)

// RateLimitMiddleware создает middleware, ограничивающий частоту запросов
// по ключу клиента в рамках класса маршрутов routeClass.
//
// Ключом клиента служит UID аутентифицированного пользователя, а для
// анонимных запросов — адрес клиента. При отказе возвращает HTTP 429
// с заголовками X-RateLimit-Limit, X-RateLimit-Window и Retry-After.
func RateLimitMiddleware(log *slog.Logger, limiter *ratelimit.Limiter, routeClass string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey, ok := r.Context().Value(UserUID).(string)
			if !ok || clientKey == "" {
				clientKey = clientHost(r.RemoteAddr)
			}

			decision, err := limiter.Allow(r.Context(), clientKey+":"+routeClass)
			if err != nil {
				log.Warn("rate limit store unavailable, request passed", sl.Err(err))
			}
			if !decision.Allowed {
				log.Info("too many requests",
					slog.String("client_key", clientKey),
					slog.String("route_class", routeClass))
				metrics.RateLimitRejected.WithLabelValues(routeClass).Inc()

				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Max()))
				w.Header().Set("X-RateLimit-Window", strconv.Itoa(int(limiter.Window().Seconds())))
				w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfter))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(response.CodeRateLimit, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientHost отбрасывает эфемерный порт из адреса клиента: разные
// TCP-соединения с одного хоста должны делить одно окно лимита.
func clientHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
