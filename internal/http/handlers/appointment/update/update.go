// Package update реализует HTTP-обработчик для частичного обновления записи на консультацию.
//
// Меняются только присланные поля; отсутствующие сохраняют прежние значения.
// Изменение услуги или начала слота повторяет проверки создания записи.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/response"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/apperr"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
)

// Handler управляет HTTP-запросами на обновление записи.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления записи.
type Service interface {
	Update(ctx context.Context, accountID, id int64, req models.DummyAppointmentUpdate) (*models.Appointment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить запись
// @Description Частично обновляет запись текущего аккаунта. Возвращает обновлённую запись.
// @Tags Appointments
// @Accept  json
// @Produce  json
// @Param id path int true "ID записи"
// @Param request body models.DummyAppointmentUpdate true "Изменяемые поля"
// @Success 200 {object} map[string]any "Успешное обновление записи"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, услуга или время"
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена или недоступна"
// @Failure 409 {object} response.ErrorResponse "Слот занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или терминальный статус"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /appointments/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.update"
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

	var req models.DummyAppointmentUpdate
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Invalid("invalid request body"))
		return
	}
	log.Info("request body decoded")

	if err = h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	accountID, ok := r.Context().Value(middlewarectx.AccountID).(int64)
	if !ok || accountID == 0 {
		log.Error("account id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Fail(apperr.New(apperr.KindUnauthorized, "unauthorized")))
		return
	}

	appointment, err := h.service.Update(r.Context(), accountID, id, req)
	if err != nil {
		log.Error("failed to update appointment", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(apperr.KindOf(err)))
		render.JSON(w, r, response.Fail(err))
		return
	}

	log.Info("success to update appointment", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(appointment))
}
