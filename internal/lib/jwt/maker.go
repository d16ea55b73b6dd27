// Package jwt реализует выпуск и проверку сессионных JWT токенов.
//
// Maker определяет интерфейс для создания и проверки токенов с идентификатором аккаунта.
// MakerImpl — конкретная реализация с использованием секретного ключа и срока жизни.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга сессионных токенов.
//
// Токен — единственное серверное представление сессии: состояние на сервере
// не хранится, валидность определяется подписью и сроком действия.
type Maker interface {
	// GenerateToken выпускает токен для аккаунта с заданной почтой
	GenerateToken(accountID int64, email string) (string, error)
	// ParseToken возвращает *SessionClaims, если подпись и срок действия корректны
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
