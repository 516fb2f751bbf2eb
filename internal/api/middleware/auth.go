package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers"
)

const msgMissingUserID = "отсутствует ID пользователя"

// HeaderUserID заголовок с ID аутентифицированного пользователя
// Заголовок проставляет API gateway после проверки токена
const HeaderUserID = "X-User-ID"

type userIDKey struct{}

// Auth middleware извлекает ID пользователя из заголовка X-User-ID
// и кладет его в контекст запроса
// Запросы без корректного заголовка отклоняются с 401
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}
