package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
)

// lockCalendar берёт advisory-блокировку общего календаря в рамках транзакции.
// Блокировка снимается автоматически при commit/rollback.
func lockCalendar(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, calendarLockKey)
	return err
}

// hasOverlap проверяет пересечение интервала с неотменёнными записями.
// Интервалы полуоткрытые: запись, начинающаяся ровно в end_time другой, не конфликтует.
func hasOverlap(ctx context.Context, tx *sql.Tx, start, end time.Time, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM appointments
		WHERE status <> 'cancelled'
		  AND start_time < $2
		  AND end_time > $1`
	args := []any{start, end}
	if excludeID != 0 {
		query += ` AND id <> $3`
		args = append(args, excludeID)
	}
	query += `)`

	var exists bool
	err := tx.QueryRowContext(ctx, query, args...).Scan(&exists)
	return exists, err
}

// CreateAppointment атомарно проверяет свободность слота и вставляет новую запись.
// Проверка и вставка идут в одной транзакции под блокировкой календаря:
// из двух конкурентных созданий пересекающихся слотов успешным будет ровно одно.
func (s *Storage) CreateAppointment(ctx context.Context, a models.Appointment) (int64, error) {
	const op = "storage.CreateAppointment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err = lockCalendar(ctx, tx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	taken, err := hasOverlap(ctx, tx, a.StartTime, a.EndTime, 0)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return 0, fmt.Errorf("%s: %w", op, ErrSlotTaken)
	}

	query := `INSERT INTO appointments (account_id, service_name, start_time, end_time, notes, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	if err = tx.QueryRowContext(ctx, query,
		a.AccountID, a.ServiceName, a.StartTime, a.EndTime, a.Notes, a.Status).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadAppointment возвращает запись по ID в границах владельца.
// Чужая запись неотличима от несуществующей: запрос сразу сужен по account_id.
func (s *Storage) ReadAppointment(ctx context.Context, id, accountID int64) (*models.Appointment, error) {
	const op = "storage.ReadAppointment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, account_id, service_name, start_time, end_time, notes, status
			  FROM appointments
			  WHERE id = $1 AND account_id = $2`
	row := s.DB.QueryRowContext(ctx, query, id, accountID)

	var result models.Appointment
	if err := row.Scan(&result.ID, &result.AccountID, &result.ServiceName,
		&result.StartTime, &result.EndTime, &result.Notes, &result.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateAppointment перезаписывает данные записи в границах владельца.
// При checkConflict проверка пересечений выполняется в той же транзакции,
// сама запись исключается из множества конфликтов.
func (s *Storage) UpdateAppointment(ctx context.Context, a models.Appointment, checkConflict bool) error {
	const op = "storage.UpdateAppointment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if checkConflict {
		if err = lockCalendar(ctx, tx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		var taken bool
		taken, err = hasOverlap(ctx, tx, a.StartTime, a.EndTime, a.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			return fmt.Errorf("%s: %w", op, ErrSlotTaken)
		}
	}

	query := `UPDATE appointments
			  SET service_name = $1, start_time = $2, end_time = $3, notes = $4, status = $5
			  WHERE id = $6 AND account_id = $7`
	result, err := tx.ExecContext(ctx, query,
		a.ServiceName, a.StartTime, a.EndTime, a.Notes, a.Status, a.ID, a.AccountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateAppointmentStatus меняет статус записи в границах владельца.
func (s *Storage) UpdateAppointmentStatus(ctx context.Context, id, accountID int64, status string) error {
	const op = "storage.UpdateAppointmentStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE appointments
			  SET status = $1
			  WHERE id = $2 AND account_id = $3`
	result, err := s.DB.ExecContext(ctx, query, status, id, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListAppointmentsByAccount возвращает все записи аккаунта,
// упорядоченные по возрастанию начала слота.
func (s *Storage) ListAppointmentsByAccount(ctx context.Context, accountID int64) ([]*models.Appointment, error) {
	const op = "storage.ListAppointmentsByAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, account_id, service_name, start_time, end_time, notes, status
			  FROM appointments
			  WHERE account_id = $1
			  ORDER BY start_time ASC`
	rows, err := s.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err = rows.Scan(&a.ID, &a.AccountID, &a.ServiceName,
			&a.StartTime, &a.EndTime, &a.Notes, &a.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CompleteElapsedAppointments переводит просроченные запрошенные записи в completed
// и возвращает количество затронутых строк.
func (s *Storage) CompleteElapsedAppointments(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.CompleteElapsedAppointments"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE appointments
			  SET status = 'completed'
			  WHERE status = 'requested' AND end_time <= $1`
	result, err := s.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
