package domain

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusInProgress  AppointmentStatus = "in_progress"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusNoShow      AppointmentStatus = "no_show"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// AppointmentKind represents the type of visit
type AppointmentKind string

const (
	KindConsultation AppointmentKind = "consultation"
	KindFollowUp     AppointmentKind = "follow_up"
	KindCheckup      AppointmentKind = "checkup"
	KindProcedure    AppointmentKind = "procedure"
	KindSurgery      AppointmentKind = "surgery"
	KindEmergency    AppointmentKind = "emergency"
	KindTelemedicine AppointmentKind = "telemedicine"
)

// AppointmentPriority represents triage priority of an appointment
type AppointmentPriority string

const (
	PriorityLow       AppointmentPriority = "low"
	PriorityNormal    AppointmentPriority = "normal"
	PriorityHigh      AppointmentPriority = "high"
	PriorityUrgent    AppointmentPriority = "urgent"
	PriorityEmergency AppointmentPriority = "emergency"
)

// Appointment represents a scheduled patient visit
type Appointment struct {
	ID            int64
	AppointmentID string // human-readable id, APT<year><sequence>
	DoctorID      int64
	PatientID     int64

	AppointmentDate time.Time
	StartTime       types.TimeString
	DurationMinutes int

	Kind     AppointmentKind
	Status   AppointmentStatus
	Priority AppointmentPriority

	ChiefComplaint string
	Notes          *string

	IsFollowUp            bool
	PreviousAppointmentID *int64

	CreatedBy int64

	CancelledAt        *time.Time
	CancelledBy        *int64
	CancellationReason *string

	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot:
// only active statuses participate in conflict and capacity checks
func (a *Appointment) IsActive() bool {
	return a.Status == StatusScheduled ||
		a.Status == StatusConfirmed ||
		a.Status == StatusInProgress
}

// IsTerminal returns true if no further status transitions are allowed
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted ||
		a.Status == StatusCancelled ||
		a.Status == StatusNoShow ||
		a.Status == StatusRescheduled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return !a.IsTerminal()
}

// EndTime calculates the appointment end time from start and duration
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// StartsAt combines the appointment date and start time into a single moment
func (a *Appointment) StartsAt() time.Time {
	return CombineDateTime(a.AppointmentDate, a.StartTime)
}

// CombineDateTime builds a time.Time from a date and an HH:MM wall-clock time
func CombineDateTime(date time.Time, t types.TimeString) time.Time {
	minutes, err := t.Minutes()
	if err != nil {
		minutes = 0
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}

// DoctorAppointmentsFilter фильтр для получения приёмов врача
type DoctorAppointmentsFilter struct {
	DoctorID        int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли завершённые и отменённые приёмы
}
