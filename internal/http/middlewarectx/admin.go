package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/beachcast/internal/http/response"
)

// AdminOnlyMiddleware создает middleware, пропускающий запросы только
// от пользователей с ролью admin. Остальным возвращает HTTP 403 Forbidden.
func AdminOnlyMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role != "admin" {
				log.Error("access denied: admin role required",
					slog.String("role", role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(response.CodeAuth, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
