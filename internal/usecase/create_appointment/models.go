package create_appointment

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Request модель запроса на создание приёма
type Request struct {
	DoctorID              int64            // ID врача
	PatientID             int64            // ID пациента
	Date                  time.Time        // Дата приёма (без времени)
	StartTime             types.TimeString // Время начала (например, "10:00")
	DurationMinutes       int              // Длительность в минутах (0 = значение по умолчанию)
	Kind                  string           // Тип приёма (consultation, follow_up, ...)
	Priority              string           // Приоритет (пусто = normal)
	ChiefComplaint        string           // Основная жалоба пациента
	Notes                 *string          // Дополнительные заметки (опционально)
	IsFollowUp            bool             // Повторный приём
	PreviousAppointmentID *int64           // ID предыдущего приёма (для повторных)
	CreatedBy             int64            // ID пользователя, создающего приём
}

// Response модель ответа с созданным приёмом
type Response struct {
	ID                    int64            // Внутренний ID
	AppointmentID         string           // Публичный номер приёма (APT...)
	DoctorID              int64            // ID врача
	PatientID             int64            // ID пациента
	AppointmentDate       time.Time        // Дата приёма
	StartTime             types.TimeString // Время начала
	DurationMinutes       int              // Длительность в минутах
	Kind                  string           // Тип приёма
	Status                string           // Статус приёма
	Priority              string           // Приоритет
	ChiefComplaint        string           // Основная жалоба
	Notes                 *string          // Заметки
	IsFollowUp            bool             // Повторный приём
	PreviousAppointmentID *int64           // ID предыдущего приёма
	CreatedAt             time.Time        // Время создания
	UpdatedAt             time.Time        // Время обновления
}
