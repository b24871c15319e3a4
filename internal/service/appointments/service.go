package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HMS-AppointmentService/internal/notify"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с приёмами
type Service struct {
	appointmentRepo AppointmentRepository
	staffClient     StaffServiceClient
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса приёмов
func NewService(
	appointmentRepo AppointmentRepository,
	staffClient StaffServiceClient,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		staffClient:     staffClient,
		notifier:        notifier,
		logger:          logger,
	}
}

// GetByID получает приём по внутреннему ID
// Проверяет права доступа - пациент может видеть только собственный приём,
// сотрудники видят любые
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, appointment, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetByNumber получает приём по публичному номеру (APT...)
func (s *Service) GetByNumber(ctx context.Context, appointmentID string, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByNumber: fetching appointment %s for user=%d", appointmentID, userID)

	appointment, err := s.appointmentRepo.GetByAppointmentID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByNumber: appointment %s not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByNumber: repository error for appointment %s: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: GetByNumber - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, appointment, userID); err != nil {
		s.logger.Warn("GetByNumber: access denied for user=%d to appointment %s", userID, appointmentID)
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetPatientAppointments получает историю приёмов пациента
// Опционально фильтрует по статусу. Пациент видит только свои приёмы,
// сотрудники - приёмы любого пациента
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: fetching appointments for patient=%d, user=%d, status=%v",
		req.PatientID, req.UserID, req.Status)

	// Пациент может смотреть только свою историю
	if req.UserID != req.PatientID {
		if err := s.checkStaffAccess(ctx, req.UserID); err != nil {
			s.logger.Warn("GetPatientAppointments: access denied for user=%d to patient=%d",
				req.UserID, req.PatientID)
			return nil, err
		}
	}

	// Конвертируем статус из строки в domain.AppointmentStatus
	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetPatientAppointments: invalid status=%s for patient=%d", *req.Status, req.PatientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByPatientID(ctx, req.PatientID, domainStatus)
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientAppointments: successfully fetched %d appointments for patient=%d",
		len(appointments), req.PatientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetDoctorAppointments получает приёмы врача с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных приёмов.
// Доступно только сотрудникам
func (s *Service) GetDoctorAppointments(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDoctorAppointments: fetching appointments for doctor=%d, user=%d",
		req.DoctorID, req.UserID)

	// Проверяем права доступа сотрудника
	if err := s.checkStaffAccess(ctx, req.UserID); err != nil {
		s.logger.Warn("GetDoctorAppointments: access denied for user=%d", req.UserID)
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetDoctorAppointments: invalid filter for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByDoctorWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetDoctorAppointments: repository error for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDoctorAppointments: successfully fetched %d appointments for doctor=%d",
		len(appointments), req.DoctorID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет приём
// Пациент может отменить только свой приём, сотрудник - любой.
// Терминальные приёмы (completed, cancelled, no_show, rescheduled) отменить нельзя
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	if req.CancellationReason == "" {
		s.logger.Warn("Cancel: empty cancellation reason for appointment id=%d", appointmentID)
		return fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
	}

	// Получаем приём
	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, appointment, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, appointmentID)
		return err
	}

	// Проверяем, можно ли отменить приём
	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s",
			appointmentID, appointment.Status)
		return ErrCannotCancel
	}

	// Отменяем приём с фиксацией, кто и почему отменил
	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.UserID, req.CancellationReason); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)

	appointment.Status = domain.StatusCancelled
	s.notifier.Dispatch(ctx, notify.Event{
		Type:        notify.EventAppointmentCancelled,
		Appointment: appointment,
		Reason:      req.CancellationReason,
	})

	return nil
}

// UpdateStatus обновляет статус приёма по таблице допустимых переходов
// Доступно только сотрудникам. Перевод в cancelled требует указания причины
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	// Получаем приём
	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа (только сотрудники)
	if err := s.checkStaffAccess(ctx, req.UserID); err != nil {
		s.logger.Warn("UpdateStatus: access denied for user=%d", req.UserID)
		return err
	}

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Проверяем допустимость перехода
	if err := domain.ValidateTransition(appointment.Status, newStatus); err != nil {
		s.logger.Warn("UpdateStatus: illegal transition for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: %v", ErrIllegalTransition, err)
	}

	// Переход в тот же статус - no-op
	if appointment.Status == newStatus {
		s.logger.Info("UpdateStatus: appointment id=%d already has status=%s", appointmentID, newStatus)
		return nil
	}

	// Отмена через смену статуса требует причину и фиксирует, кто отменил
	if newStatus == domain.StatusCancelled {
		if req.Reason == nil || *req.Reason == "" {
			s.logger.Warn("UpdateStatus: missing cancellation reason for appointment id=%d", appointmentID)
			return fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
		}
		if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.UserID, *req.Reason); err != nil {
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	} else {
		if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s",
		appointmentID, newStatus)

	s.dispatchStatusEvent(ctx, appointment, newStatus, req.Reason)
	return nil
}

// Вспомогательные методы

// dispatchStatusEvent отправляет уведомление о смене статуса, если для нового
// статуса предусмотрено событие
func (s *Service) dispatchStatusEvent(ctx context.Context, appointment *domain.Appointment, status domain.AppointmentStatus, reason *string) {
	appointment.Status = status

	switch status {
	case domain.StatusConfirmed:
		s.notifier.Dispatch(ctx, notify.Event{
			Type:        notify.EventAppointmentConfirmed,
			Appointment: appointment,
		})
	case domain.StatusCancelled:
		event := notify.Event{
			Type:        notify.EventAppointmentCancelled,
			Appointment: appointment,
		}
		if reason != nil {
			event.Reason = *reason
		}
		s.notifier.Dispatch(ctx, event)
	}
}

// checkUserAccess проверяет, что пользователь имеет доступ к приёму
// Пациент видит свой приём, сотрудники - любые
func (s *Service) checkUserAccess(ctx context.Context, appointment *domain.Appointment, userID int64) error {
	// Если пользователь - пациент этого приёма, доступ разрешён
	if appointment.PatientID == userID {
		return nil
	}

	if err := s.checkStaffAccess(ctx, userID); err != nil {
		// Ошибка уже залогирована в checkStaffAccess
		return ErrAccessDenied
	}

	return nil
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

	s.logger.Info("checkStaffAccess: user=%d is a staff member", userID)
	return nil
}
