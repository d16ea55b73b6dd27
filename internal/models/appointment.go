// Package models содержит доменные структуры, описывающие запись на консультацию,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Статусы записи. Requested — начальное состояние, Cancelled и Completed — терминальные.
const (
	StatusRequested = "requested"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ServiceDurations фиксированный каталог услуг консультации и их длительностей.
// Названия услуг — часть внешнего контракта и должны совпадать побайтово.
var ServiceDurations = map[string]time.Duration{
	"Initial Consultation": 30 * time.Minute,
	"Standard Session":     60 * time.Minute,
	"Online Meeting":       45 * time.Minute,
}

// Appointment представляет собой основную модель записи на консультацию,
// используемую в бизнес-логике и хранилище.
// EndTime всегда производное значение: StartTime + длительность услуги из каталога.
type Appointment struct {
	ID          int64     `json:"id"`           // Уникальный идентификатор записи
	AccountID   int64     `json:"-"`            // Идентификатор владельца
	ServiceName string    `json:"service_name"` // Название услуги из каталога
	StartTime   time.Time `json:"start_time"`   // Начало слота
	EndTime     time.Time `json:"end_time"`     // Конец слота (вычисляется сервером)
	Notes       string    `json:"notes"`        // Произвольные заметки клиента
	Status      string    `json:"status"`       // requested / cancelled / completed
}

// IsTerminal сообщает, находится ли запись в терминальном статусе.
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// DummyAppointment используется для приёма данных из JSON-запроса на создание записи,
// прежде чем конвертировать их в Appointment.
// Даты приходят в виде строк RFC3339, чтобы их можно было валидировать и парсить вручную.
// EndTime принимается для совместимости с клиентом, но всегда пересчитывается сервером.
type DummyAppointment struct {
	ServiceName string `json:"service_name" validate:"required"`              // Название услуги
	StartTime   string `json:"start_time" validate:"required"`                // Начало слота в формате RFC3339
	EndTime     string `json:"end_time,omitempty" validate:"omitempty"`       // Игнорируется, пересчитывается
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=500"`  // Заметки (опционально)
}

// DummyAppointmentUpdate используется для частичного обновления записи.
// nil означает "поле не менять", присутствующее значение — заменить.
type DummyAppointmentUpdate struct {
	ServiceName *string `json:"service_name,omitempty" validate:"omitempty,min=1"`
	StartTime   *string `json:"start_time,omitempty" validate:"omitempty"`
	EndTime     *string `json:"end_time,omitempty" validate:"omitempty"` // Игнорируется, пересчитывается
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}
