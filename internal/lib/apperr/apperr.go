// Package apperr определяет стабильную таксономию ошибок доменного уровня.
//
// Каждая ошибка несёт машиночитаемый Kind и человекочитаемый Detail.
// Kind — часть внешнего контракта: обработчики отдают его клиенту как есть,
// а внутренние ошибки хранилища наружу не просачиваются и сворачиваются
// в KindInternal с нейтральным текстом.
package apperr

import (
	"errors"
	"net/http"
)

// Kind машиночитаемый вид ошибки.
type Kind string

const (
	// KindInvalidInput некорректная форма или значения запроса.
	KindInvalidInput Kind = "invalid_input"
	// KindDuplicateAccount учётная запись с такой почтой уже существует.
	KindDuplicateAccount Kind = "duplicate_account"
	// KindInvalidCredentials неверная пара почта/пароль; причина не раскрывается.
	KindInvalidCredentials Kind = "invalid_credentials"
	// KindInvalidToken токен не прошёл проверку подписи или формата.
	KindInvalidToken Kind = "invalid_token"
	// KindExpiredToken срок действия токена истёк.
	KindExpiredToken Kind = "expired_token"
	// KindUnauthorized запрос без разрешимой личности вызывающего.
	KindUnauthorized Kind = "unauthorized"
	// KindNotFound запись не существует либо принадлежит другому аккаунту.
	// Обе причины наружу неразличимы.
	KindNotFound Kind = "not_found"
	// KindInvalidServiceType услуга отсутствует в каталоге.
	KindInvalidServiceType Kind = "invalid_service_type"
	// KindPastStartTime начало слота не в будущем.
	KindPastStartTime Kind = "past_start_time"
	// KindSlotConflict слот пересекается с существующей активной записью.
	KindSlotConflict Kind = "slot_conflict"
	// KindInvalidTransition недопустимый переход статуса из терминального состояния.
	KindInvalidTransition Kind = "invalid_transition"
	// KindInternal внутренняя ошибка; подробности остаются в логах.
	KindInternal Kind = "internal"
)

// Error доменная ошибка с видом и описанием.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Detail
}

// New создает доменную ошибку заданного вида.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// KindOf извлекает вид из цепочки ошибок; всё нераспознанное считается внутренним.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Detail возвращает безопасный для клиента текст ошибки.
// Для внутренних ошибок отдается нейтральное сообщение.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "internal server error"
}

// HTTPStatus отображает вид ошибки в HTTP-статус.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidInput, KindInvalidServiceType, KindPastStartTime:
		return http.StatusBadRequest
	case KindDuplicateAccount:
		return http.StatusConflict
	case KindInvalidCredentials, KindInvalidToken, KindExpiredToken, KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindSlotConflict:
		return http.StatusConflict
	case KindInvalidTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
