// Package middleware HTTP middleware роутера
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// HeaderUserID заголовок с идентификатором пользователя, проставляется API gateway
const HeaderUserID = "X-User-ID"

// Auth проверяет наличие корректного X-User-ID и кладет его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "некорректный заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext извлекает ID пользователя, положенный Auth middleware
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
