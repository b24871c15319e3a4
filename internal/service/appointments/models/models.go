package models

import (
	"errors"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену приёма
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса приёма
type UpdateStatusRequest struct {
	UserID int64   `json:"userId"`
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"` // Обязателен при переводе в cancelled
}

// GetPatientAppointmentsRequest запрос на получение приёмов пациента
type GetPatientAppointmentsRequest struct {
	UserID    int64   `json:"userId"`
	PatientID int64   `json:"patientId"`
	Status    *string `json:"status,omitempty"`
}

// GetDoctorAppointmentsRequest запрос на получение приёмов врача
type GetDoctorAppointmentsRequest struct {
	UserID          int64      `json:"userId"`
	DoctorID        int64      `json:"doctorId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и завершённые приёмы
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetDoctorAppointmentsRequest) ToDomainFilter() (domain.DoctorAppointmentsFilter, error) {
	filter := domain.DoctorAppointmentsFilter{
		DoctorID:        r.DoctorID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными приёма
type AppointmentResponse struct {
	ID                    int64  `json:"id"`
	AppointmentID         string `json:"appointmentId"`
	DoctorID              int64  `json:"doctorId"`
	PatientID             int64  `json:"patientId"`
	AppointmentDate       string `json:"appointmentDate"` // "2025-10-15"
	StartTime             string `json:"startTime"`       // "10:00"
	EndTime               string `json:"endTime"`         // "10:30"
	DurationMinutes       int    `json:"durationMinutes"`
	Kind                  string `json:"kind"`
	Status                string `json:"status"`
	Priority              string `json:"priority"`
	ChiefComplaint        string `json:"chiefComplaint"`
	Notes                 *string `json:"notes,omitempty"`
	IsFollowUp            bool    `json:"isFollowUp"`
	PreviousAppointmentID *int64  `json:"previousAppointmentId,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	CancelledBy        *int64  `json:"cancelledBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком приёмов
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// ToDomainAppointmentStatus валидирует и конвертирует строковый статус
func ToDomainAppointmentStatus(s string) (domain.AppointmentStatus, error) {
	status, ok := domain.ParseStatus(s)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                    a.ID,
		AppointmentID:         a.AppointmentID,
		DoctorID:              a.DoctorID,
		PatientID:             a.PatientID,
		AppointmentDate:       a.AppointmentDate.Format(domain.DateFormat),
		StartTime:             a.StartTime.String(),
		DurationMinutes:       a.DurationMinutes,
		Kind:                  string(a.Kind),
		Status:                string(a.Status),
		Priority:              string(a.Priority),
		ChiefComplaint:        a.ChiefComplaint,
		Notes:                 a.Notes,
		IsFollowUp:            a.IsFollowUp,
		PreviousAppointmentID: a.PreviousAppointmentID,
		CancellationReason:    a.CancellationReason,
		CancelledBy:           a.CancelledBy,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}

	if end, err := a.EndTime(); err == nil {
		resp.EndTime = end.String()
	}

	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	result := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		if resp := FromDomainAppointment(a); resp != nil {
			result = append(result, *resp)
		}
	}
	return &AppointmentListResponse{Appointments: result}
}
