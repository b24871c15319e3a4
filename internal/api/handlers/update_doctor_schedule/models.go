package update_doctor_schedule

import (
	"github.com/m04kA/HMS-AppointmentService/internal/service/schedule/models"
)

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	Windows []models.ScheduleWindow `json:"windows"`
}
