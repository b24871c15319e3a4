package domain

// Default values
const (
	DefaultDurationMinutes        = 30
	DefaultSlotGranularityMinutes = 30
	DefaultMaxAdvanceDays         = 0 // 0 = unlimited
)

// Business validation constants
const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 480 // 8 hours

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AppointmentIDPrefix префикс человекочитаемого идентификатора приёма.
// Формат: APT<год><шестизначный порядковый номер>, например APT2026000042
const AppointmentIDPrefix = "APT"

// ActiveStatuses статусы, при которых приём занимает свой слот.
// Используются в проверке конфликтов и в частичном уникальном индексе БД.
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses статусы без исходящих переходов
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
	StatusRescheduled,
}

// ValidKinds допустимые типы приёма
var ValidKinds = []AppointmentKind{
	KindConsultation,
	KindFollowUp,
	KindCheckup,
	KindProcedure,
	KindSurgery,
	KindEmergency,
	KindTelemedicine,
}

// ValidPriorities допустимые приоритеты приёма
var ValidPriorities = []AppointmentPriority{
	PriorityLow,
	PriorityNormal,
	PriorityHigh,
	PriorityUrgent,
	PriorityEmergency,
}

// ParseStatus валидирует строковое представление статуса
func ParseStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled:
		return AppointmentStatus(s), true
	default:
		return "", false
	}
}

// ParseKind валидирует строковое представление типа приёма
func ParseKind(s string) (AppointmentKind, bool) {
	for _, k := range ValidKinds {
		if AppointmentKind(s) == k {
			return k, true
		}
	}
	return "", false
}

// ParsePriority валидирует строковое представление приоритета
func ParsePriority(s string) (AppointmentPriority, bool) {
	for _, p := range ValidPriorities {
		if AppointmentPriority(s) == p {
			return p, true
		}
	}
	return "", false
}
