// Package repository реализует хранилище данных на основе PostgreSQL
// для управления записями на консультацию и учётными записями клиентов.
// Предоставляет методы создания, чтения, обновления и отмены записей,
// а также работу с учётными записями.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Сигнальные ошибки хранилища. Бизнес-слой переводит их в доменную таксономию.
var (
	// ErrNotFound запись не существует либо не принадлежит запрашивающему аккаунту.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail почта уже занята (нарушение уникального индекса lower(email)).
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrSlotTaken интервал пересекается с существующей неотменённой записью.
	ErrSlotTaken = errors.New("slot taken")
)

// Консультация ведёт один общий календарь, поэтому проверка пересечений
// и запись выполняются под одной advisory-блокировкой на весь календарь.
const calendarLockKey = 310553

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с записями и учётными записями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'appointments'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table appointments missing or query error: %w", err)
	}
	return nil
}
