package domain

import "fmt"

// allowedTransitions таблица допустимых переходов статусов приёма.
// Терминальные статусы исходящих переходов не имеют.
var allowedTransitions = map[AppointmentStatus]map[AppointmentStatus]bool{
	StatusScheduled: {
		StatusConfirmed: true,
		StatusCancelled: true,
		StatusNoShow:    true,
	},
	StatusConfirmed: {
		StatusInProgress: true,
		StatusCancelled:  true,
		StatusNoShow:     true,
	},
	StatusInProgress: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusCompleted:   {},
	StatusCancelled:   {},
	StatusNoShow:      {},
	StatusRescheduled: {},
}

// IllegalTransitionError возвращается при недопустимом переходе статуса
type IllegalTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %q to %q", e.From, e.To)
}

// CanTransition reports whether the from→to transition is allowed.
// A transition to the same status is a no-op and is always allowed.
func CanTransition(from, to AppointmentStatus) bool {
	if from == to {
		return true
	}
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// ValidateTransition возвращает IllegalTransitionError, если переход недопустим
func ValidateTransition(from, to AppointmentStatus) error {
	if !CanTransition(from, to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	return nil
}
