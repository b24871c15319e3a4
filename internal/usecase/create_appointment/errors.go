package create_appointment

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("create_appointment: doctor not found")

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("create_appointment: patient not found")

	// ErrPastDateTime возвращается, когда дата и время приёма уже прошли
	ErrPastDateTime = errors.New("create_appointment: appointment date and time is in the past")

	// ErrDoctorNotAccepting возвращается, когда врач не принимает новых пациентов
	ErrDoctorNotAccepting = errors.New("create_appointment: doctor is not accepting patients")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxAdvanceDays
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrOutsideWorkingHours возвращается, когда время начала вне рабочих часов врача
	ErrOutsideWorkingHours = errors.New("create_appointment: start time is outside working hours")

	// ErrSlotConflict возвращается, когда у врача уже есть активный приём на это время
	ErrSlotConflict = errors.New("create_appointment: doctor already has an appointment at this time")

	// ErrCapacityExceeded возвращается, когда достигнут дневной лимит пациентов врача
	ErrCapacityExceeded = errors.New("create_appointment: doctor daily patient limit reached")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("create_appointment: internal error")
)
