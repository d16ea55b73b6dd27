// Package cancel реализует HTTP-обработчик отмены записи на консультацию.
//
// Отмена идемпотентна: повторная отмена уже отменённой записи — успех без изменений.
// Отменённый слот вновь становится доступным для бронирования.
package cancel

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/response"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/apperr"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
)

// Handler управляет HTTP-запросами на отмену записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены записи.
type Service interface {
	Cancel(ctx context.Context, accountID, id int64) (*models.Appointment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить запись
// @Description Переводит запись текущего аккаунта в статус cancelled. Идемпотентно.
// @Tags Appointments
// @Produce  json
// @Param id path int true "ID записи"
// @Success 200 {object} map[string]any "Запись отменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный id в url"
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена или недоступна"
// @Failure 422 {object} response.ErrorResponse "Завершённую запись отменить нельзя"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /appointments/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Invalid("failed to decode id from url"))
		return
	}

	accountID, ok := r.Context().Value(middlewarectx.AccountID).(int64)
	if !ok || accountID == 0 {
		log.Error("account id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Fail(apperr.New(apperr.KindUnauthorized, "unauthorized")))
		return
	}

	appointment, err := h.service.Cancel(r.Context(), accountID, id)
	if err != nil {
		log.Error("failed to cancel appointment", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(apperr.KindOf(err)))
		render.JSON(w, r, response.Fail(err))
		return
	}

	log.Info("success to cancel appointment", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(appointment))
}
