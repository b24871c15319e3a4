package get_appointment

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments"
	serviceModels "github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID приёма"
	msgNotFound             = "приём не найден"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/{appointmentId}
// Принимает как внутренний числовой ID, так и публичный номер вида APT2025000042
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rawID := vars["appointmentId"]

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	appointment, err := h.getAppointment(r, rawID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errBadID):
			h.logger.Warn("GET /appointments/{id} - Invalid appointment ID: %s", rawID)
			handlers.RespondBadRequest(w, handlers.CodeInvalidRequest, msgInvalidAppointmentID)

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /appointments/{id} - Appointment not found: id=%s", rawID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments/{id} - Access denied: id=%s, user_id=%d", rawID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /appointments/{id} - Failed to get appointment: id=%s, error=%v", rawID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/{id} - Appointment retrieved successfully: id=%s, user_id=%d",
		rawID, userID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}

var errBadID = errors.New("invalid appointment id")

func (h *Handler) getAppointment(r *http.Request, rawID string, userID int64) (*serviceModels.AppointmentResponse, error) {
	if strings.HasPrefix(rawID, domain.AppointmentIDPrefix) {
		return h.service.GetByNumber(r.Context(), rawID, userID)
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, errBadID
	}

	return h.service.GetByID(r.Context(), id, userID)
}
