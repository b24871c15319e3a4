package appointments

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/notify"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByAppointmentID(ctx context.Context, appointmentID string) (*domain.Appointment, error)
	GetByPatientID(ctx context.Context, patientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByDoctorWithFilter(ctx context.Context, filter domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, cancelledBy int64, reason string) error
}

// StaffServiceClient интерфейс клиента для StaffService
type StaffServiceClient interface {
	IsStaff(ctx context.Context, userID int64) (bool, error)
}

// Notifier интерфейс отправки уведомлений о событиях приёма
type Notifier interface {
	Dispatch(ctx context.Context, event notify.Event)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
