// Package services содержит бизнес-логику жизненного цикла записей на консультацию:
// вывод длительности из каталога услуг, проверку занятости слота, переходы статусов
// и кеширование горячих чтений.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/apperr"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/storage/repository"
)

// AppointmentRepository определяет методы для работы с записями в хранилище.
type AppointmentRepository interface {
	// CreateAppointment атомарно проверяет слот и добавляет запись, возвращая её ID.
	CreateAppointment(ctx context.Context, a models.Appointment) (int64, error)
	// ReadAppointment возвращает запись по ID в границах владельца.
	ReadAppointment(ctx context.Context, id, accountID int64) (*models.Appointment, error)
	// UpdateAppointment перезаписывает запись, опционально с проверкой слота.
	UpdateAppointment(ctx context.Context, a models.Appointment, checkConflict bool) error
	// UpdateAppointmentStatus меняет статус записи в границах владельца.
	UpdateAppointmentStatus(ctx context.Context, id, accountID int64, status string) error
	// ListAppointmentsByAccount возвращает записи аккаунта по возрастанию начала.
	ListAppointmentsByAccount(ctx context.Context, accountID int64) ([]*models.Appointment, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ScheduleService реализует бизнес-логику работы с записями на консультацию.
type ScheduleService struct {
	repo  AppointmentRepository
	cache Cache
	log   *slog.Logger
}

// NewScheduleService создает новый экземпляр ScheduleService.
func NewScheduleService(repo AppointmentRepository, cache Cache, log *slog.Logger) *ScheduleService {
	return &ScheduleService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Ключ кеша включает владельца: чтение по чужому ID мимо кеша не пройдёт.
func cacheKey(accountID, id int64) string {
	return fmt.Sprintf("appointment:%d:%d", accountID, id)
}

// mapStorageErr переводит сигнальные ошибки хранилища в доменную таксономию.
// Существование чужой записи наружу не раскрывается.
func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrSlotTaken):
		return apperr.New(apperr.KindSlotConflict, "requested time slot is unavailable")
	case errors.Is(err, repository.ErrNotFound):
		return apperr.New(apperr.KindNotFound, "appointment not found or inaccessible")
	}
	return err
}

// resolveSlot выводит длительность услуги из каталога и возвращает границы слота.
// Конец слота всегда производный: start + duration(service).
func resolveSlot(serviceName string, start time.Time) (time.Time, time.Time, error) {
	duration, ok := models.ServiceDurations[serviceName]
	if !ok {
		return time.Time{}, time.Time{}, apperr.New(apperr.KindInvalidServiceType, "unknown service type")
	}
	return start, start.Add(duration), nil
}

// Create создает новую запись для аккаунта в статусе requested.
func (s *ScheduleService) Create(ctx context.Context, accountID int64, req models.DummyAppointment) (*models.Appointment, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid start time: expected RFC3339 timestamp")
	}
	start = start.UTC()
	start, end, err := resolveSlot(req.ServiceName, start)
	if err != nil {
		return nil, err
	}
	if !start.After(time.Now().UTC()) {
		return nil, apperr.New(apperr.KindPastStartTime, "start time must be in the future")
	}

	appointment := models.Appointment{
		AccountID:   accountID,
		ServiceName: req.ServiceName,
		StartTime:   start,
		EndTime:     end,
		Notes:       req.Notes,
		Status:      models.StatusRequested,
	}
	id, err := s.repo.CreateAppointment(ctx, appointment)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	appointment.ID = id

	s.log.Info("created new appointment", slog.Int64("id", id),
		slog.String("service", appointment.ServiceName))

	if err := s.cache.Set(cacheKey(accountID, id), appointment, time.Hour); err != nil {
		s.log.Warn("failed to cache appointment", slog.String("key", cacheKey(accountID, id)), sl.Err(err))
	}
	return &appointment, nil
}

// Get возвращает запись по ID, используя кеш или репозиторий.
// Чужая запись неотличима от несуществующей.
func (s *ScheduleService) Get(ctx context.Context, accountID, id int64) (*models.Appointment, error) {
	var result *models.Appointment
	key := cacheKey(accountID, id)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", key), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}
	result, err = s.repo.ReadAppointment(ctx, id, accountID)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	if err := s.cache.Set(key, result, time.Hour); err != nil {
		s.log.Warn("failed to cache appointment", slog.String("key", key), sl.Err(err))
	}
	return result, nil
}

// Update частично обновляет запись: меняются только присланные поля.
// Изменение услуги или начала слота повторяет проверки создания,
// исключая саму запись из множества конфликтов. Терминальная запись
// допускает только no-op по слоту и правку заметок.
func (s *ScheduleService) Update(ctx context.Context, accountID, id int64, req models.DummyAppointmentUpdate) (*models.Appointment, error) {
	existing, err := s.repo.ReadAppointment(ctx, id, accountID)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	serviceName := existing.ServiceName
	if req.ServiceName != nil {
		serviceName = *req.ServiceName
	}
	start := existing.StartTime
	if req.StartTime != nil {
		start, err = time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, apperr.New(apperr.KindInvalidInput, "invalid start time: expected RFC3339 timestamp")
		}
		start = start.UTC()
	}
	notes := existing.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	slotChanged := serviceName != existing.ServiceName || !start.Equal(existing.StartTime)
	if existing.IsTerminal() && slotChanged {
		return nil, apperr.New(apperr.KindInvalidTransition,
			"appointment is in a terminal status and cannot be rescheduled")
	}

	start, end, err := resolveSlot(serviceName, start)
	if err != nil {
		return nil, err
	}
	if slotChanged && !start.After(time.Now().UTC()) {
		return nil, apperr.New(apperr.KindPastStartTime, "start time must be in the future")
	}

	updated := models.Appointment{
		ID:          id,
		AccountID:   accountID,
		ServiceName: serviceName,
		StartTime:   start,
		EndTime:     end,
		Notes:       notes,
		Status:      existing.Status,
	}
	if err = s.repo.UpdateAppointment(ctx, updated, slotChanged); err != nil {
		return nil, mapStorageErr(err)
	}
	s.log.Info("updated appointment", slog.Int64("id", id))

	if err := s.cache.Set(cacheKey(accountID, id), updated, time.Hour); err != nil {
		s.log.Warn("failed to cache appointment", slog.String("key", cacheKey(accountID, id)), sl.Err(err))
	}
	return &updated, nil
}

// Cancel переводит запись в статус cancelled.
// Повторная отмена — no-op успех, отменённый слот вновь становится доступным.
func (s *ScheduleService) Cancel(ctx context.Context, accountID, id int64) (*models.Appointment, error) {
	existing, err := s.repo.ReadAppointment(ctx, id, accountID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if existing.Status == models.StatusCancelled {
		return existing, nil
	}
	if existing.Status == models.StatusCompleted {
		return nil, apperr.New(apperr.KindInvalidTransition, "completed appointment cannot be cancelled")
	}

	if err = s.repo.UpdateAppointmentStatus(ctx, id, accountID, models.StatusCancelled); err != nil {
		return nil, mapStorageErr(err)
	}
	existing.Status = models.StatusCancelled
	s.log.Info("cancelled appointment", slog.Int64("id", id))

	if err := s.cache.Invalidate(cacheKey(accountID, id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(accountID, id)), sl.Err(err))
	}
	return existing, nil
}

// List возвращает все записи аккаунта по возрастанию начала слота.
// Отсутствие записей — пустой список, а не ошибка.
func (s *ScheduleService) List(ctx context.Context, accountID int64) ([]*models.Appointment, error) {
	entries, err := s.repo.ListAppointmentsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.Appointment{}
	}
	return entries, nil
}
