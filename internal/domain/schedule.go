package domain

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// WorkingWindow интервал времени, в течение которого врач принимает пациентов
type WorkingWindow struct {
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// Contains reports whether the start time falls inside the window.
// Only the start is compared against the bounds: a visit that begins
// before closing is allowed to run past it.
func (w WorkingWindow) Contains(start types.TimeString) bool {
	return !start.IsBefore(w.OpenTime) && !start.IsAfter(w.CloseTime)
}

// DoctorSchedule расписание врача: рабочие окна по дням недели.
// Отсутствие окон для дня недели означает, что врач в этот день не принимает
// (если политикой не задано окно по умолчанию).
type DoctorSchedule struct {
	DoctorID int64
	Windows  map[time.Weekday][]WorkingWindow

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WindowsFor возвращает рабочие окна на указанный день недели
func (s *DoctorSchedule) WindowsFor(weekday time.Weekday) []WorkingWindow {
	if s == nil || s.Windows == nil {
		return nil
	}
	return s.Windows[weekday]
}

// BookingPolicy параметры планирования, не привязанные к конкретному врачу.
// Загружаются из конфигурации сервиса.
type BookingPolicy struct {
	// DefaultWindow окно по умолчанию для дней недели без явного расписания.
	// nil = без окна по умолчанию: день без расписания закрыт для записи.
	DefaultWindow *WorkingWindow

	// SlotGranularityMinutes шаг сетки слотов в листинге доступности.
	// На валидацию произвольного времени начала не влияет.
	SlotGranularityMinutes int

	// MaxAdvanceDays максимальный горизонт записи в днях. 0 = без ограничения.
	MaxAdvanceDays int
}

// EffectiveWindows возвращает рабочие окна врача на день недели
// с учётом окна по умолчанию из политики
func (p BookingPolicy) EffectiveWindows(schedule *DoctorSchedule, weekday time.Weekday) []WorkingWindow {
	windows := schedule.WindowsFor(weekday)
	if len(windows) > 0 {
		return windows
	}
	if p.DefaultWindow != nil {
		return []WorkingWindow{*p.DefaultWindow}
	}
	return nil
}

// HasAdvanceLimit returns true if there is a limit on how far ahead
// appointments can be booked
func (p BookingPolicy) HasAdvanceLimit() bool {
	return p.MaxAdvanceDays > 0
}
