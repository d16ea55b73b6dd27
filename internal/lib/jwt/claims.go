// Package jwt реализует выпуск и проверку сессионных JWT токенов.
//
// SessionClaims расширяет стандартные claims JWT, добавляя идентификатор
// аккаунта и почту владельца сессии.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrExpired возвращается ParseToken, когда подпись корректна, но срок действия истёк.
// Отдельная ошибка нужна, чтобы вызывающий мог отличить истёкший токен от подделанного.
var ErrExpired = errors.New("token expired")

// SessionClaims описывает данные сессии, хранящиеся в JWT.
type SessionClaims struct {
	AccountID            int64  `json:"account_id"` // Идентификатор аккаунта
	Email                string `json:"email"`      // Почта владельца сессии
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// GenerateToken создает JWT токен для аккаунта, подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL, jti заполняется случайным uuid.
func (j *MakerImpl) GenerateToken(accountID int64, email string) (string, error) {
	claims := SessionClaims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и срок действия,
// возвращает SessionClaims с данными, если токен корректен.
// Для истёкшего, но корректно подписанного токена ошибка оборачивает ErrExpired.
func (j *MakerImpl) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
