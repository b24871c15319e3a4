package get_doctor_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgNotFound        = "расписание врача не найдено"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorIDStr := vars["doctorId"]

	doctorID, err := strconv.ParseInt(doctorIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/schedule - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidRequest, msgInvalidDoctorID)
		return
	}

	result, err := h.service.Get(r.Context(), doctorID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrScheduleNotFound):
			h.logger.Warn("GET /doctors/{id}/schedule - Schedule not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /doctors/{id}/schedule - Failed to get schedule: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/schedule - Schedule retrieved successfully: doctor_id=%d", doctorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
