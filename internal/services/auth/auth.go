// Package services содержит логику бизнес-уровня для работы с учётными записями и сессиями.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/apperr"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/jwt"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/password"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/storage/repository"
)

// Причина отказа при входе не раскрывается: несуществующая почта, неверный пароль
// и выключенная учётная запись дают один и тот же ответ.
const invalidCredentialsDetail = "invalid email or password"

// AccountRepository описывает контракт для работы с учётными записями в базе данных.
type AccountRepository interface {
	// RegisterAccount сохраняет новую учётную запись и возвращает её ID.
	RegisterAccount(ctx context.Context, account models.Account) (int64, error)

	// GetAccountByEmail возвращает учётную запись по почте без учёта регистра.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// AuthService отвечает за регистрацию, вход и разрешение сессионных токенов.
//
// Сессия не хранится на сервере: выход — это выбрасывание токена на клиенте,
// токен остаётся криптографически валидным до истечения TTL.
type AuthService struct {
	accounts       AccountRepository
	jwtMaker       jwt.Maker
	minPasswordLen int
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(accounts AccountRepository, jwtMaker jwt.Maker, minPasswordLen int) *AuthService {
	return &AuthService{
		accounts:       accounts,
		jwtMaker:       jwtMaker,
		minPasswordLen: minPasswordLen,
	}
}

// Register создает новую активную учётную запись с хэшированием пароля.
// Почта нормализуется к нижнему регистру, занятая почта возвращает duplicate_account.
func (s *AuthService) Register(ctx context.Context, email, rawPassword, fullName string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.New(apperr.KindInvalidInput, "email is malformed")
	}
	if len(rawPassword) < s.minPasswordLen {
		return nil, apperr.New(apperr.KindInvalidInput, "password is too short")
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}
	account := models.Account{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hashed,
		IsActive:     true,
	}
	id, err := s.accounts.RegisterAccount(ctx, account)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.New(apperr.KindDuplicateAccount, "account with this email already exists")
		}
		return nil, err
	}
	account.ID = id
	return &account, nil
}

// Login проверяет пароль клиента и выпускает подписанный сессионный токен.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.New(apperr.KindInvalidCredentials, invalidCredentialsDetail)
		}
		return "", err
	}
	if !account.IsActive {
		return "", apperr.New(apperr.KindInvalidCredentials, invalidCredentialsDetail)
	}
	if err := password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		return "", apperr.New(apperr.KindInvalidCredentials, invalidCredentialsDetail)
	}
	return s.jwtMaker.GenerateToken(account.ID, account.Email)
}

// Authenticate разрешает предъявленный токен в идентификатор аккаунта.
// Чистая функция токена и часов: никакого серверного состояния сессий нет.
func (s *AuthService) Authenticate(_ context.Context, token string) (int64, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return 0, apperr.New(apperr.KindExpiredToken, "session token has expired")
		}
		return 0, apperr.New(apperr.KindInvalidToken, "session token is invalid")
	}
	return claims.AccountID, nil
}
