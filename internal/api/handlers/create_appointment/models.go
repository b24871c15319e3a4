package create_appointment

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	DoctorID              int64   `json:"doctorId"`
	PatientID             int64   `json:"patientId"`
	AppointmentDate       string  `json:"appointmentDate"` // "2025-10-15"
	StartTime             string  `json:"startTime"`       // "10:00"
	DurationMinutes       int     `json:"durationMinutes,omitempty"`
	Kind                  string  `json:"kind,omitempty"`
	Priority              string  `json:"priority,omitempty"`
	ChiefComplaint        string  `json:"chiefComplaint"`
	Notes                 *string `json:"notes,omitempty"`
	IsFollowUp            bool    `json:"isFollowUp,omitempty"`
	PreviousAppointmentID *int64  `json:"previousAppointmentId,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                    int64   `json:"id"`
	AppointmentID         string  `json:"appointmentId"`
	DoctorID              int64   `json:"doctorId"`
	PatientID             int64   `json:"patientId"`
	AppointmentDate       string  `json:"appointmentDate"`
	StartTime             string  `json:"startTime"`
	DurationMinutes       int     `json:"durationMinutes"`
	Kind                  string  `json:"kind"`
	Status                string  `json:"status"`
	Priority              string  `json:"priority"`
	ChiefComplaint        string  `json:"chiefComplaint"`
	Notes                 *string `json:"notes,omitempty"`
	IsFollowUp            bool    `json:"isFollowUp"`
	PreviousAppointmentID *int64  `json:"previousAppointmentId,omitempty"`
	CreatedAt             string  `json:"createdAt"`
	UpdatedAt             string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.AppointmentDate)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		DoctorID:              r.DoctorID,
		PatientID:             r.PatientID,
		Date:                  date,
		StartTime:             startTime,
		DurationMinutes:       r.DurationMinutes,
		Kind:                  r.Kind,
		Priority:              r.Priority,
		ChiefComplaint:        r.ChiefComplaint,
		Notes:                 r.Notes,
		IsFollowUp:            r.IsFollowUp,
		PreviousAppointmentID: r.PreviousAppointmentID,
		CreatedBy:             userID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                    resp.ID,
		AppointmentID:         resp.AppointmentID,
		DoctorID:              resp.DoctorID,
		PatientID:             resp.PatientID,
		AppointmentDate:       resp.AppointmentDate.Format(domain.DateFormat),
		StartTime:             resp.StartTime.String(),
		DurationMinutes:       resp.DurationMinutes,
		Kind:                  resp.Kind,
		Status:                resp.Status,
		Priority:              resp.Priority,
		ChiefComplaint:        resp.ChiefComplaint,
		Notes:                 resp.Notes,
		IsFollowUp:            resp.IsFollowUp,
		PreviousAppointmentID: resp.PreviousAppointmentID,
		CreatedAt:             resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             resp.UpdatedAt.Format(time.RFC3339),
	}
}
