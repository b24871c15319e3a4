package schedule

import (
	"context"
	"errors"
	"fmt"

	scheduleRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/HMS-AppointmentService/internal/service/schedule/models"
)

// Service сервис для работы с расписаниями врачей
type Service struct {
	scheduleRepo ScheduleRepository
	staffClient  StaffServiceClient
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	staffClient StaffServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		staffClient:  staffClient,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get получает расписание врача
func (s *Service) Get(ctx context.Context, doctorID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule for doctor=%d", doctorID)

	schedule, err := s.scheduleRepo.GetByDoctorID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Get: schedule for doctor=%d not found", doctorID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Get: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: successfully fetched schedule for doctor=%d", doctorID)
	return models.FromDomainSchedule(schedule), nil
}

// Replace полностью заменяет расписание врача
// Доступно только сотрудникам. Пустой список интервалов удаляет расписание
func (s *Service) Replace(ctx context.Context, req *models.ReplaceScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Replace: replacing schedule for doctor=%d by user=%d, %d windows",
		req.DoctorID, req.UserID, len(req.Windows))

	// Проверяем права доступа сотрудника
	if err := s.checkStaffAccess(ctx, req.UserID); err != nil {
		s.logger.Warn("Replace: access denied for user=%d", req.UserID)
		return nil, err
	}

	// Валидируем и конвертируем интервалы
	windows, err := req.ToDomainWindows()
	if err != nil {
		s.logger.Warn("Replace: invalid windows for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Удаление старых окон и вставка новых должны зафиксироваться вместе:
	// частичная замена не должна оставить врача без расписания
	var result *models.ScheduleResponse

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.scheduleRepo.Replace(txCtx, req.DoctorID, windows); err != nil {
			s.logger.Error("Replace: repository error for doctor=%d: %v", req.DoctorID, err)
			return fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
		}

		// Возвращаем актуальное расписание
		schedule, err := s.scheduleRepo.GetByDoctorID(txCtx, req.DoctorID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				// Пустое расписание после замены пустым списком
				result = &models.ScheduleResponse{DoctorID: req.DoctorID, Windows: []models.ScheduleWindow{}}
				return nil
			}
			s.logger.Error("Replace: failed to reload schedule for doctor=%d: %v", req.DoctorID, err)
			return fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
		}

		result = models.FromDomainSchedule(schedule)
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Replace: successfully replaced schedule for doctor=%d", req.DoctorID)
	return result, nil
}

// checkStaffAccess проверяет, что пользователь является сотрудником клиники
func (s *Service) checkStaffAccess(ctx context.Context, userID int64) error {
	isStaff, err := s.staffClient.IsStaff(ctx, userID)
	if err != nil {
		s.logger.Error("checkStaffAccess: failed to check user=%d: %v", userID, err)
		return fmt.Errorf("%w: checkStaffAccess - failed to check staff: %v", ErrInternal, err)
	}

	if !isStaff {
		s.logger.Warn("checkStaffAccess: user=%d is not a staff member", userID)
		return ErrAccessDenied
	}

	return nil
}
