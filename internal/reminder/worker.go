package reminder

import (
	"context"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/notify"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	FindPendingReminders(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// Notifier интерфейс отправки уведомлений
type Notifier interface {
	Dispatch(ctx context.Context, event notify.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Worker фоновый воркер напоминаний о завтрашних приёмах.
// Каждый тик находит активные приёмы на завтра без отправленного напоминания,
// отправляет событие и помечает приём, чтобы не отправлять повторно.
type Worker struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	interval        time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewWorker создает новый воркер напоминаний
func NewWorker(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	interval time.Duration,
	logger Logger,
) *Worker {
	return &Worker{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		interval:        interval,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Run запускает цикл воркера. Блокируется до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("reminder: worker started, interval=%s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder: worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick обрабатывает одну итерацию: напоминания о приёмах на завтра
func (w *Worker) tick(ctx context.Context) {
	tomorrow := w.timeProvider.Now().AddDate(0, 0, 1)

	appointments, err := w.appointmentRepo.FindPendingReminders(ctx, tomorrow)
	if err != nil {
		w.logger.Error("reminder: failed to find pending reminders: %v", err)
		return
	}

	if len(appointments) == 0 {
		return
	}

	w.logger.Info("reminder: %d appointments to remind for %s",
		len(appointments), tomorrow.Format(domain.DateFormat))

	for _, appt := range appointments {
		w.notifier.Dispatch(ctx, notify.Event{
			Type:        notify.EventAppointmentReminder,
			Appointment: appt,
		})

		if err := w.appointmentRepo.MarkReminderSent(ctx, appt.ID); err != nil {
			// Не помеченный приём попадёт в следующий тик: возможен повтор
			// уведомления, но не потеря
			w.logger.Error("reminder: failed to mark appointment id=%d: %v", appt.ID, err)
		}
	}
}
