// Package services содержит фоновый сервис, закрывающий прошедшие записи:
// запрошенная запись, чей слот уже истёк, переводится в терминальный статус completed.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/sl"
)

// AppointmentRepository описывает контракт для массового закрытия прошедших записей.
type AppointmentRepository interface {
	CompleteElapsedAppointments(ctx context.Context, now time.Time) (int64, error)
}

// CompleterService закрывает прошедшие записи по таймеру.
// Это административное ребро машины статусов: клиентский API его не дергает.
type CompleterService struct {
	repo     AppointmentRepository
	log      *slog.Logger
	interval time.Duration
}

// NewCompleterService создает новый экземпляр CompleterService.
func NewCompleterService(repo AppointmentRepository, log *slog.Logger, interval time.Duration) *CompleterService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CompleterService{
		repo:     repo,
		log:      log,
		interval: interval,
	}
}

// Run запускает цикл закрытия прошедших записей до отмены контекста.
func (s *CompleterService) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *CompleterService) runOnce(ctx context.Context) {
	count, err := s.repo.CompleteElapsedAppointments(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("failed to complete elapsed appointments", sl.Err(err))
		return
	}
	if count > 0 {
		s.log.Info("completed elapsed appointments", slog.Int64("count", count))
	}
}
