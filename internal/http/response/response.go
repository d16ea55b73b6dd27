// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Ошибки несут стабильный
// машиночитаемый вид (error_kind) и человекочитаемый текст; внутренние
// подробности наружу не отдаются.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/apperr"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле ErrorKind — машиночитаемый вид ошибки (опционально, при неуспехе).
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status    string `json:"status"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status    string `json:"status" example:"Error"`
	ErrorKind string `json:"error_kind" example:"invalid_input"`
	Error     string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Fail формирует ответ по доменной ошибке: её вид и безопасный текст.
// Всё, что не входит в таксономию, сворачивается во внутреннюю ошибку.
func Fail(err error) ErrorResponse {
	return ErrorResponse{
		Status:    StatusError,
		ErrorKind: string(apperr.KindOf(err)),
		Error:     apperr.Detail(err),
	}
}

// Invalid возвращает ответ с ошибкой некорректного запроса.
func Invalid(msg string) ErrorResponse {
	return ErrorResponse{
		Status:    StatusError,
		ErrorKind: string(apperr.KindInvalidInput),
		Error:     msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status:    StatusError,
		ErrorKind: string(apperr.KindInvalidInput),
		Error:     strings.Join(errsMsgs, ", "),
	}
}
