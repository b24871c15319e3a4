package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.CreatedBy <= 0 {
		return fmt.Errorf("%w: createdBy must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	// Длительность: 0 означает значение по умолчанию, иначе в пределах [15, 480]
	if req.DurationMinutes != 0 &&
		(req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes) {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if req.Kind != "" {
		if _, ok := domain.ParseKind(req.Kind); !ok {
			return fmt.Errorf("%w: unknown appointment kind %q", ErrInvalidInput, req.Kind)
		}
	}

	if req.Priority != "" {
		if _, ok := domain.ParsePriority(req.Priority); !ok {
			return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
		}
	}

	if req.ChiefComplaint == "" {
		return fmt.Errorf("%w: chiefComplaint is required", ErrInvalidInput)
	}

	if req.IsFollowUp && req.PreviousAppointmentID == nil {
		return fmt.Errorf("%w: previousAppointmentID is required for follow-up", ErrInvalidInput)
	}

	return nil
}

// validateNotInPast проверяет, что дата и время приёма ещё не наступили
func validateNotInPast(date time.Time, startTime types.TimeString, now time.Time) error {
	startsAt := domain.CombineDateTime(date, startTime)
	if startsAt.Before(now) {
		return ErrPastDateTime
	}

	return nil
}

// validateAdvanceWindow проверяет, что дата не превышает ограничение maxAdvanceDays
func validateAdvanceWindow(date time.Time, now time.Time, maxAdvanceDays int) error {
	// Если maxAdvanceDays = 0, нет ограничений на дату
	if maxAdvanceDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, maxAdvanceDays)

	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}

	return nil
}

// validateWorkingHours проверяет, что время начала попадает в один из рабочих
// интервалов врача. Проверяется только время начала: приём может закончиться
// после закрытия окна.
func validateWorkingHours(windows []domain.WorkingWindow, startTime types.TimeString) error {
	for _, w := range windows {
		if w.Contains(startTime) {
			return nil
		}
	}
	return ErrOutsideWorkingHours
}

// hasSlotConflict проверяет, есть ли у врача активный приём с точно таким же
// временем начала в этот день
func hasSlotConflict(appointments []*domain.Appointment, startTime types.TimeString) bool {
	for _, appt := range appointments {
		if appt.IsActive() && appt.StartTime == startTime {
			return true
		}
	}
	return false
}

// countNonCancelled подсчитывает приёмы за день, занимающие дневной лимит врача.
// Отменённые приёмы лимит не занимают.
func countNonCancelled(appointments []*domain.Appointment) int {
	count := 0
	for _, appt := range appointments {
		if appt.Status != domain.StatusCancelled {
			count++
		}
	}
	return count
}
