package schedule

import (
	"context"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний врачей
type ScheduleRepository interface {
	GetByDoctorID(ctx context.Context, doctorID int64) (*domain.DoctorSchedule, error)
	Replace(ctx context.Context, doctorID int64, windows map[time.Weekday][]domain.WorkingWindow) error
}

// StaffServiceClient интерфейс клиента для StaffService
type StaffServiceClient interface {
	IsStaff(ctx context.Context, userID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
