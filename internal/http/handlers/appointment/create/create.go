// Package create реализует HTTP-обработчик для создания новых записей на консультацию.
//
// Handler принимает JSON-запрос с данными записи, валидирует их, извлекает идентификатор
// аккаунта из контекста, вызывает бизнес-логику создания записи через сервис и возвращает
// созданную запись в JSON-формате. Присланный клиентом end_time игнорируется:
// конец слота всегда пересчитывается сервером из каталога услуг.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/response"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/apperr"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
)

// Handler управляет HTTP-запросами на создание новых записей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания записей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания записи.
type Service interface {
	Create(ctx context.Context, accountID int64, req models.DummyAppointment) (*models.Appointment, error)
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
// @Summary Создать новую запись на консультацию
// @Description Создает новую запись для текущего аккаунта. Возвращает созданную запись.
// @Tags Appointments
// @Accept  json
// @Produce  json
// @Param request body models.DummyAppointment true "Данные новой записи"
// @Success 201 {object} map[string]any "Успешное создание записи"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, услуга или время"
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 409 {object} response.ErrorResponse "Слот занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании записи"
// @Router /appointments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAppointment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Invalid("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	accountID, ok := r.Context().Value(middlewarectx.AccountID).(int64)
	if !ok || accountID == 0 {
		log.Error("account id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Fail(apperr.New(apperr.KindUnauthorized, "unauthorized")))
		return
	}

	appointment, err := h.service.Create(r.Context(), accountID, req)
	if err != nil {
		log.Error("failed to create appointment", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(apperr.KindOf(err)))
		render.JSON(w, r, response.Fail(err))
		return
	}

	log.Info("success to create appointment", slog.Int64("id", appointment.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(appointment))
}
