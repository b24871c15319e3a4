package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptStorage "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	scheduleStorage "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/schedule"
	patientClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/patientservice"
	staffClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/HMS-AppointmentService/internal/notify"
	"github.com/m04kA/HMS-AppointmentService/pkg/ptr"
)

// UseCase use case для создания приёма
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	sequenceRepo    SequenceRepository
	staffClient     StaffServiceClient
	patientClient   PatientServiceClient
	txManager       TransactionManager
	notifier        Notifier
	policy          domain.BookingPolicy
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	sequenceRepo SequenceRepository,
	staffClient StaffServiceClient,
	patientClient PatientServiceClient,
	txManager TransactionManager,
	notifier Notifier,
	policy domain.BookingPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		sequenceRepo:    sequenceRepo,
		staffClient:     staffClient,
		patientClient:   patientClient,
		txManager:       txManager,
		notifier:        notifier,
		policy:          policy,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания приёма.
// Проверки выполняются строго по порядку: прошедшая дата, приём пациентов,
// горизонт записи, рабочие часы, конфликт слота, дневной лимит. Первая
// неудавшаяся проверка завершает запрос.
// Использует сериализуемую транзакцию для предотвращения гонки данных.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: doctor=%d, patient=%d, date=%s, time=%s",
		req.DoctorID, req.PatientID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем, что дата и время приёма ещё не наступили
	if err := validateNotInPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateAppointment: past datetime: date=%s, time=%s",
			req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, err
	}

	// 4. Получаем врача
	doctor, err := uc.staffClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, staffClient.ErrDoctorNotFound) {
			uc.logger.Warn("CreateAppointment: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 5. Проверяем, что врач принимает пациентов
	if !doctor.IsAcceptingPatients {
		uc.logger.Warn("CreateAppointment: doctor id=%d is not accepting patients", req.DoctorID)
		return nil, ErrDoctorNotAccepting
	}

	// 6. Проверяем горизонт записи
	if err := validateAdvanceWindow(req.Date, now, uc.policy.MaxAdvanceDays); err != nil {
		uc.logger.Warn("CreateAppointment: advance window validation failed: %v", err)
		return nil, err
	}

	// 7. Проверяем существование пациента
	if _, err := uc.patientClient.GetPatient(ctx, req.PatientID); err != nil {
		if errors.Is(err, patientClient.ErrPatientNotFound) {
			uc.logger.Warn("CreateAppointment: patient id=%d not found", req.PatientID)
			return nil, ErrPatientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 8. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Получаем расписание врача
		schedule, err := uc.scheduleRepo.GetByDoctorID(txCtx, req.DoctorID)
		if err != nil && !errors.Is(err, scheduleStorage.ErrScheduleNotFound) {
			uc.logger.Error("CreateAppointment: failed to get schedule: %v", err)
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}

		// 8.2. Проверяем рабочие часы на день недели приёма
		windows := uc.policy.EffectiveWindows(schedule, req.Date.Weekday())
		if err := validateWorkingHours(windows, req.StartTime); err != nil {
			uc.logger.Warn("CreateAppointment: doctor=%d time=%s is outside working hours",
				req.DoctorID, req.StartTime)
			return err
		}

		// 8.3. Получаем все приёмы врача на эту дату с блокировкой (FOR UPDATE)
		filter := domain.DoctorAppointmentsFilter{
			DoctorID:        req.DoctorID,
			StartDate:       ptr.Ptr(req.Date),
			EndDate:         ptr.Ptr(req.Date),
			IncludeInactive: true, // Дневной лимит считается по неотменённым приёмам
		}

		appointments, err := uc.appointmentRepo.GetByDoctorWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 8.4. Проверяем конфликт слота: точное совпадение времени начала
		if hasSlotConflict(appointments, req.StartTime) {
			uc.logger.Warn("CreateAppointment: doctor=%d already has an appointment at %s %s",
				req.DoctorID, req.Date.Format(domain.DateFormat), req.StartTime)
			return ErrSlotConflict
		}

		// 8.5. Проверяем дневной лимит пациентов врача
		if doctor.MaxPatientsPerDay > 0 {
			taken := countNonCancelled(appointments)
			if taken >= doctor.MaxPatientsPerDay {
				uc.logger.Warn("CreateAppointment: doctor=%d daily limit reached, %d/%d",
					req.DoctorID, taken, doctor.MaxPatientsPerDay)
				return ErrCapacityExceeded
			}
		}

		// 8.6. Выделяем следующий номер приёма за год
		seq, err := uc.sequenceRepo.Next(txCtx, now.Year())
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to allocate appointment number: %v", err)
			return fmt.Errorf("%w: failed to allocate appointment number: %v", ErrInternal, err)
		}

		appointment := &domain.Appointment{
			AppointmentID:         fmt.Sprintf("%s%d%06d", domain.AppointmentIDPrefix, now.Year(), seq),
			DoctorID:              req.DoctorID,
			PatientID:             req.PatientID,
			AppointmentDate:       req.Date,
			StartTime:             req.StartTime,
			DurationMinutes:       effectiveDuration(req.DurationMinutes),
			Kind:                  effectiveKind(req.Kind),
			Status:                domain.StatusScheduled,
			Priority:              effectivePriority(req.Priority),
			ChiefComplaint:        req.ChiefComplaint,
			Notes:                 req.Notes,
			IsFollowUp:            req.IsFollowUp,
			PreviousAppointmentID: req.PreviousAppointmentID,
			CreatedBy:             req.CreatedBy,
		}

		// 8.7. Сохраняем приём
		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			// Частичный уникальный индекс в БД: последний рубеж против гонки
			if errors.Is(err, apptStorage.ErrSlotTaken) {
				uc.logger.Warn("CreateAppointment: slot taken on insert, doctor=%d, date=%s, time=%s",
					req.DoctorID, req.Date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotConflict
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment %s (id=%d)",
		result.AppointmentID, result.ID)

	// Уведомление отправляется после фиксации транзакции
	uc.notifier.Dispatch(ctx, notify.Event{
		Type:        notify.EventAppointmentScheduled,
		Appointment: result,
	})

	// Конвертируем в response
	return &Response{
		ID:                    result.ID,
		AppointmentID:         result.AppointmentID,
		DoctorID:              result.DoctorID,
		PatientID:             result.PatientID,
		AppointmentDate:       result.AppointmentDate,
		StartTime:             result.StartTime,
		DurationMinutes:       result.DurationMinutes,
		Kind:                  string(result.Kind),
		Status:                string(result.Status),
		Priority:              string(result.Priority),
		ChiefComplaint:        result.ChiefComplaint,
		Notes:                 result.Notes,
		IsFollowUp:            result.IsFollowUp,
		PreviousAppointmentID: result.PreviousAppointmentID,
		CreatedAt:             result.CreatedAt,
		UpdatedAt:             result.UpdatedAt,
	}, nil
}

// effectiveDuration возвращает длительность приёма с учетом значения по умолчанию
func effectiveDuration(minutes int) int {
	if minutes == 0 {
		return domain.DefaultDurationMinutes
	}
	return minutes
}

// effectiveKind возвращает тип приёма с учетом значения по умолчанию
func effectiveKind(kind string) domain.AppointmentKind {
	if kind == "" {
		return domain.KindConsultation
	}
	k, _ := domain.ParseKind(kind)
	return k
}

// effectivePriority возвращает приоритет с учетом значения по умолчанию
func effectivePriority(priority string) domain.AppointmentPriority {
	if priority == "" {
		return domain.PriorityNormal
	}
	p, _ := domain.ParsePriority(priority)
	return p
}
