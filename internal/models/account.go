// Package models содержит доменную модель учётной записи клиента,
// включающую почту, хэш пароля и флаг активности.
// Структура используется в бизнес-логике и при работе с хранилищем.
package models

// Account представляет зарегистрированного клиента консультации.
// Email хранится в нижнем регистре, уникальность проверяется без учёта регистра.
type Account struct {
	ID           int64  // Уникальный идентификатор
	Email        string // Электронная почта (нормализована к нижнему регистру)
	FullName     string // Отображаемое имя
	PasswordHash string // Bcrypt-хэш пароля, наружу никогда не отдаётся
	IsActive     bool   // Активна ли учётная запись
}

// PublicAccount публичное представление учётной записи для HTTP-ответов.
// Хэш пароля сюда не попадает.
type PublicAccount struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// Public возвращает представление без чувствительных полей.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:       a.ID,
		Email:    a.Email,
		FullName: a.FullName,
		IsActive: a.IsActive,
	}
}
