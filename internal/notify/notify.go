package notify

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// EventType тип доменного события для уведомлений
type EventType string

const (
	EventAppointmentScheduled EventType = "APPOINTMENT_SCHEDULED"
	EventAppointmentConfirmed EventType = "APPOINTMENT_CONFIRMED"
	EventAppointmentCancelled EventType = "APPOINTMENT_CANCELLED"
	EventAppointmentReminder  EventType = "APPOINTMENT_REMINDER"
)

// Event доменное событие, формируемое явно после успешного коммита.
// Никаких неявных хуков на сохранение: кто изменил состояние, тот и публикует событие.
type Event struct {
	Type        EventType
	Appointment *domain.Appointment
	// Reason причина для событий отмены
	Reason string
}

// Dispatcher доставляет события получателям. Доставка fire-and-forget:
// неудача уведомления не откатывает бизнес-операцию.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// LogDispatcher реализация Dispatcher, которая пишет события в лог.
// Плейсхолдер до подключения реального шлюза уведомлений (email/SMS).
type LogDispatcher struct {
	log Logger
}

// NewLogDispatcher создает новый лог-диспетчер уведомлений
func NewLogDispatcher(log Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

// Dispatch логирует событие
func (d *LogDispatcher) Dispatch(_ context.Context, ev Event) {
	if ev.Appointment == nil {
		d.log.Warn("notify: event %s without appointment payload", ev.Type)
		return
	}

	switch ev.Type {
	case EventAppointmentCancelled:
		d.log.Info("notify: %s appointment=%s patient=%d doctor=%d reason=%q",
			ev.Type, ev.Appointment.AppointmentID, ev.Appointment.PatientID, ev.Appointment.DoctorID, ev.Reason)
	default:
		d.log.Info("notify: %s appointment=%s patient=%d doctor=%d date=%s time=%s",
			ev.Type, ev.Appointment.AppointmentID, ev.Appointment.PatientID, ev.Appointment.DoctorID,
			ev.Appointment.AppointmentDate.Format(domain.DateFormat), ev.Appointment.StartTime)
	}
}
