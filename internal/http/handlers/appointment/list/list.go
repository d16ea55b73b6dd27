// Package list реализует HTTP-обработчик для получения всех записей текущего аккаунта.
//
// Записи возвращаются по возрастанию начала слота; отсутствие записей — пустой список.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/response"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/apperr"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
)

// Handler управляет HTTP-запросами на получение списка записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка записей.
type Service interface {
	List(ctx context.Context, accountID int64) ([]*models.Appointment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список записей аккаунта
// @Description Возвращает все записи текущего аккаунта по возрастанию начала слота.
// @Tags Appointments
// @Produce  json
// @Success 200 {object} map[string]any "Список записей"
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /appointments/list [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accountID, ok := r.Context().Value(middlewarectx.AccountID).(int64)
	if !ok || accountID == 0 {
		log.Error("account id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Fail(apperr.New(apperr.KindUnauthorized, "unauthorized")))
		return
	}

	appointments, err := h.service.List(r.Context(), accountID)
	if err != nil {
		log.Error("failed to list appointments", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(apperr.KindOf(err)))
		render.JSON(w, r, response.Fail(err))
		return
	}

	log.Info("success to list appointments", slog.Int("count", len(appointments)))
	render.JSON(w, r, response.OKWithData(appointments))
}
