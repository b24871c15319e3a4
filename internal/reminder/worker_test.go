package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/notify"
)

type fakeAppointmentRepo struct {
	pending   []*domain.Appointment
	findErr   error
	markErr   error
	lastDate  time.Time
	markedIDs []int64
}

func (f *fakeAppointmentRepo) FindPendingReminders(_ context.Context, date time.Time) ([]*domain.Appointment, error) {
	f.lastDate = date
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.pending, nil
}

func (f *fakeAppointmentRepo) MarkReminderSent(_ context.Context, id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedIDs = append(f.markedIDs, id)
	return nil
}

type fakeNotifier struct {
	events []notify.Event
}

func (f *fakeNotifier) Dispatch(_ context.Context, ev notify.Event) {
	f.events = append(f.events, ev)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)

func newTestWorker(repo *fakeAppointmentRepo) (*Worker, *fakeNotifier) {
	notifier := &fakeNotifier{}
	w := NewWorker(repo, notifier, time.Minute, nopLogger{})
	w.timeProvider = &fakeTimeProvider{now: testNow}
	return w, notifier
}

func TestTick_SendsRemindersForTomorrow(t *testing.T) {
	repo := &fakeAppointmentRepo{
		pending: []*domain.Appointment{
			{ID: 1, AppointmentID: "APT2025000001", Status: domain.StatusScheduled},
			{ID: 2, AppointmentID: "APT2025000002", Status: domain.StatusConfirmed},
		},
	}
	w, notifier := newTestWorker(repo)

	w.tick(context.Background())

	assert.Equal(t, testNow.AddDate(0, 0, 1), repo.lastDate)
	require.Len(t, notifier.events, 2)
	assert.Equal(t, notify.EventAppointmentReminder, notifier.events[0].Type)
	assert.Equal(t, []int64{1, 2}, repo.markedIDs)
}

func TestTick_NothingPending(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	w, notifier := newTestWorker(repo)

	w.tick(context.Background())

	assert.Empty(t, notifier.events)
	assert.Empty(t, repo.markedIDs)
}

func TestTick_FindErrorSkipsIteration(t *testing.T) {
	repo := &fakeAppointmentRepo{findErr: errors.New("db down")}
	w, notifier := newTestWorker(repo)

	w.tick(context.Background())

	assert.Empty(t, notifier.events)
}

func TestTick_MarkFailureStillDispatches(t *testing.T) {
	repo := &fakeAppointmentRepo{
		pending: []*domain.Appointment{{ID: 1, Status: domain.StatusScheduled}},
		markErr: errors.New("db down"),
	}
	w, notifier := newTestWorker(repo)

	// Отметка не удалась: уведомление отправлено, приём попадёт в следующий тик
	w.tick(context.Background())

	assert.Len(t, notifier.events, 1)
	assert.Empty(t, repo.markedIDs)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	w, _ := newTestWorker(repo)
	w.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
