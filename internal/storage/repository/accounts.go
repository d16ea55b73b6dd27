package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
)

// pgUniqueViolation код ошибки PostgreSQL для нарушения уникального ограничения.
const pgUniqueViolation = "23505"

// RegisterAccount сохраняет новую учётную запись и возвращает её ID.
// Занятая почта (без учёта регистра) возвращается как ErrDuplicateEmail:
// уникальный индекс по lower(email) — последняя инстанция при гонке регистраций.
func (s *Storage) RegisterAccount(ctx context.Context, account models.Account) (int64, error) {
	const op = "storage.RegisterAccount"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO accounts (email, full_name, password_hash, is_active)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		account.Email, account.FullName, account.PasswordHash, account.IsActive).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetAccountByEmail возвращает учётную запись по почте без учёта регистра.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, full_name, password_hash, is_active
			  FROM accounts
			  WHERE lower(email) = lower($1)`
	a := &models.Account{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// GetAccount возвращает учётную запись по её ID.
func (s *Storage) GetAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	const op = "storage.GetAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, full_name, password_hash, is_active
			  FROM accounts
			  WHERE id = $1`
	a := &models.Account{}
	row := s.DB.QueryRowContext(ctx, query, accountID)
	if err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
