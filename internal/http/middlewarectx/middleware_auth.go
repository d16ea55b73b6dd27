// Package middlewarectx содержит HTTP middleware для обработки и проверки сессионных токенов.
//
// SessionMiddleware проверяет наличие и валидность bearer-токена в заголовке Authorization,
// разрешает его в идентификатор аккаунта через сервис сессий и в случае успеха
// добавляет идентификатор в контекст для дальнейшего использования в обработчиках.
//
// Отсутствующий или искажённый заголовок неотличим от невалидного токена.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/apperr"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/response"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// AccountID — ключ для идентификатора аккаунта в контексте
const AccountID Key = "account_id"

// Service описывает интерфейс сервиса для разрешения сессионного токена.
type Service interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет bearer-токен
// в заголовке Authorization.
//
// Если токен валиден, добавляет идентификатор аккаунта в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func SessionMiddleware(auth Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "middlewarectx.SessionMiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Fail(apperr.New(apperr.KindInvalidToken,
					"missing or invalid authorization header")))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			accountID, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, apperr.HTTPStatus(apperr.KindOf(err)))
				render.JSON(w, r, response.Fail(err))
				return
			}
			ctx := context.WithValue(r.Context(), AccountID, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
