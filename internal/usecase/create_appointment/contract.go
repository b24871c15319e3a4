package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/patientservice"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/HMS-AppointmentService/internal/notify"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetByDoctorWithFilter(ctx context.Context, filter domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписаний врачей
type ScheduleRepository interface {
	GetByDoctorID(ctx context.Context, doctorID int64) (*domain.DoctorSchedule, error)
}

// SequenceRepository интерфейс генератора номеров приёмов
type SequenceRepository interface {
	Next(ctx context.Context, year int) (int64, error)
}

// StaffServiceClient интерфейс клиента для StaffService
type StaffServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*staffservice.Doctor, error)
}

// PatientServiceClient интерфейс клиента для PatientService
type PatientServiceClient interface {
	GetPatient(ctx context.Context, patientID int64) (*patientservice.Patient, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс отправки уведомлений о событиях приёма
type Notifier interface {
	Dispatch(ctx context.Context, event notify.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
