package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	scheduleStorage "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/schedule"
	staffClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/HMS-AppointmentService/pkg/ptr"
)

// UseCase use case для получения доступных слотов записи к врачу
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	staffClient     StaffServiceClient
	policy          domain.BookingPolicy
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	staffClient StaffServiceClient,
	policy domain.BookingPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		staffClient:     staffClient,
		policy:          policy,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: doctor=%d, date=%s",
		req.DoctorID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	duration := req.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultDurationMinutes
	}

	// 3. Проверяем существование врача
	if _, err := uc.staffClient.GetDoctor(ctx, req.DoctorID); err != nil {
		if errors.Is(err, staffClient.ErrDoctorNotFound) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 4. Проверяем горизонт записи
	if err := validateAdvanceWindow(req.Date, now, uc.policy.MaxAdvanceDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: advance window validation failed: %v", err)
		return nil, err
	}

	// 5. Прошедшая дата: пустой список, не ошибка
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, duration), nil
	}

	// 6. Получаем расписание врача
	schedule, err := uc.scheduleRepo.GetByDoctorID(ctx, req.DoctorID)
	if err != nil && !errors.Is(err, scheduleStorage.ErrScheduleNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	windows := uc.policy.EffectiveWindows(schedule, req.Date.Weekday())
	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: doctor=%d has no working hours on %s",
			req.DoctorID, req.Date.Weekday())
		return uc.emptyResponse(req, duration), nil
	}

	// 7. Получаем активные приёмы врача на эту дату
	filter := domain.DoctorAppointmentsFilter{
		DoctorID:  req.DoctorID,
		StartDate: ptr.Ptr(req.Date),
		EndDate:   ptr.Ptr(req.Date),
	}

	appointments, err := uc.appointmentRepo.GetByDoctorWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 8. Генерируем слоты
	slots, err := generateSlots(windows, uc.policy.SlotGranularityMinutes, duration, appointments, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: doctor=%d, date=%s, %d slots available",
		req.DoctorID, req.Date.Format(domain.DateFormat), len(slots))

	return &Response{
		DoctorID:        req.DoctorID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           slots,
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request, duration int) *Response {
	return &Response{
		DoctorID:        req.DoctorID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           []Slot{},
	}
}
