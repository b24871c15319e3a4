package get_available_slots

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	DoctorID        int64     // ID врача
	Date            time.Time // Дата, на которую запрашиваются слоты
	DurationMinutes int       // Желаемая длительность приёма (0 = значение по умолчанию)
}

// Slot доступный слот для записи
type Slot struct {
	StartTime types.TimeString // Время начала
	EndTime   types.TimeString // Время окончания
}

// Response модель ответа со списком доступных слотов
type Response struct {
	DoctorID        int64     // ID врача
	Date            time.Time // Дата
	DurationMinutes int       // Длительность слота в минутах
	Slots           []Slot    // Доступные слоты в порядке возрастания времени
}
