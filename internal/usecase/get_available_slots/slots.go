package get_available_slots

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// generateSlots генерирует доступные слоты по рабочим интервалам врача.
// Слоты идут с шагом granularity от начала каждого интервала; слот попадает в
// список, только если целиком помещается в интервал, не совпадает по времени
// начала с активным приёмом и ещё не прошёл (для сегодняшней даты).
func generateSlots(
	windows []domain.WorkingWindow,
	granularityMinutes int,
	durationMinutes int,
	appointments []*domain.Appointment,
	requestDate time.Time,
	now time.Time,
) ([]Slot, error) {
	taken := takenStartTimes(appointments)

	slots := make([]Slot, 0)
	for _, w := range windows {
		current := w.OpenTime
		for !current.IsAfter(w.CloseTime) {
			end, err := current.AddMinutes(durationMinutes)
			if err != nil {
				break
			}
			if end.IsAfter(w.CloseTime) {
				break
			}

			if !taken[current] && !isPastSlot(current, requestDate, now) {
				slots = append(slots, Slot{StartTime: current, EndTime: end})
			}

			next, err := current.AddMinutes(granularityMinutes)
			if err != nil {
				break
			}
			current = next
		}
	}

	return slots, nil
}

// takenStartTimes собирает времена начала активных приёмов
func takenStartTimes(appointments []*domain.Appointment) map[types.TimeString]bool {
	taken := make(map[types.TimeString]bool, len(appointments))
	for _, appt := range appointments {
		if appt.IsActive() {
			taken[appt.StartTime] = true
		}
	}
	return taken
}

// isPastSlot проверяет, что слот на сегодняшнюю дату уже начался
func isPastSlot(start types.TimeString, requestDate time.Time, now time.Time) bool {
	if !isSameDay(requestDate, now) {
		return false
	}
	return start.IsBefore(types.NewTimeString(now))
}

// isSameDay проверяет, что обе даты приходятся на один календарный день
func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// isDateInPast проверяет, что дата строго раньше сегодняшней
func isDateInPast(date time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return dateOnly.Before(today)
}
