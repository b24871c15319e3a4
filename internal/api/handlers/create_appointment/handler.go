package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgPastDateTime       = "дата и время приёма уже прошли"
	msgDoctorNotAccepting = "врач не принимает новых пациентов"
	msgDateTooFar         = "дата приёма слишком далеко в будущем"
	msgOutsideHours       = "время начала вне рабочих часов врача"
	msgSlotConflict       = "у врача уже есть приём на это время"
	msgCapacityExceeded   = "достигнут дневной лимит пациентов врача"
	msgDoctorNotFound     = "врач не найден"
	msgPatientNotFound    = "пациент не найден"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidRequest, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidRequest, msgInvalidDateTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidRequest, err.Error())

		case errors.Is(err, createAppointment.ErrPastDateTime):
			h.logger.Warn("POST /appointments - Past datetime: doctor_id=%d, patient_id=%d", req.DoctorID, req.PatientID)
			handlers.RespondBadRequest(w, handlers.CodePastDateTime, msgPastDateTime)

		case errors.Is(err, createAppointment.ErrDoctorNotAccepting):
			h.logger.Warn("POST /appointments - Doctor not accepting: doctor_id=%d", req.DoctorID)
			handlers.RespondBadRequest(w, handlers.CodeResourceUnavailable, msgDoctorNotAccepting)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: doctor_id=%d", req.DoctorID)
			handlers.RespondBadRequest(w, handlers.CodeDateTooFar, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrOutsideWorkingHours):
			h.logger.Warn("POST /appointments - Outside working hours: doctor_id=%d, time=%s", req.DoctorID, req.StartTime)
			handlers.RespondBadRequest(w, handlers.CodeOutsideHours, msgOutsideHours)

		case errors.Is(err, createAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: doctor_id=%d, date=%s, time=%s",
				req.DoctorID, req.AppointmentDate, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, handlers.CodeSlotConflict, msgSlotConflict)

		case errors.Is(err, createAppointment.ErrCapacityExceeded):
			h.logger.Warn("POST /appointments - Capacity exceeded: doctor_id=%d, date=%s", req.DoctorID, req.AppointmentDate)
			handlers.RespondBadRequest(w, handlers.CodeCapacityExceeded, msgCapacityExceeded)

		case errors.Is(err, createAppointment.ErrDoctorNotFound):
			h.logger.Warn("POST /appointments - Doctor not found: doctor_id=%d", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, createAppointment.ErrPatientNotFound):
			h.logger.Warn("POST /appointments - Patient not found: patient_id=%d", req.PatientID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: doctor_id=%d, patient_id=%d, error=%v",
				req.DoctorID, req.PatientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%s, doctor_id=%d, patient_id=%d",
		result.AppointmentID, req.DoctorID, req.PatientID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
