package domain

import "github.com/m04kA/HMS-AppointmentService/pkg/types"

// AvailableSlot represents a free start time offered for booking
type AvailableSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
}

// EndTime returns the slot end time
func (s *AvailableSlot) EndTime() (types.TimeString, error) {
	return s.StartTime.AddMinutes(s.DurationMinutes)
}
