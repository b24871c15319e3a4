package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/HMS-AppointmentService/internal/service/schedule/models"
)

type txMarker struct{}

// fakeTxManager помечает контекст на время выполнения fn, чтобы репозиторий
// мог проверить, что его вызвали внутри транзакции
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(context.WithValue(ctx, txMarker{}, true))
}

func inTx(ctx context.Context) bool {
	marked, _ := ctx.Value(txMarker{}).(bool)
	return marked
}

type fakeScheduleRepo struct {
	schedule *domain.DoctorSchedule
	getErr   error

	replacedDoctorID int64
	replacedWindows  map[time.Weekday][]domain.WorkingWindow
	replacedInTx     bool
	reloadedInTx     bool
}

func (f *fakeScheduleRepo) GetByDoctorID(ctx context.Context, _ int64) (*domain.DoctorSchedule, error) {
	f.reloadedInTx = inTx(ctx)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.schedule, nil
}

func (f *fakeScheduleRepo) Replace(ctx context.Context, doctorID int64, windows map[time.Weekday][]domain.WorkingWindow) error {
	f.replacedDoctorID = doctorID
	f.replacedWindows = windows
	f.replacedInTx = inTx(ctx)
	// Имитируем поведение хранилища: после замены Get возвращает новое расписание
	if len(windows) == 0 {
		f.schedule = nil
		f.getErr = scheduleRepo.ErrScheduleNotFound
	} else {
		f.schedule = &domain.DoctorSchedule{DoctorID: doctorID, Windows: windows}
		f.getErr = nil
	}
	return nil
}

type fakeStaffClient struct {
	staffIDs map[int64]bool
}

func (f *fakeStaffClient) IsStaff(_ context.Context, userID int64) (bool, error) {
	return f.staffIDs[userID], nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const staffID = int64(100)

func newTestService(repo *fakeScheduleRepo) *Service {
	return NewService(repo, &fakeStaffClient{staffIDs: map[int64]bool{staffID: true}}, &fakeTxManager{}, nopLogger{})
}

func TestGet(t *testing.T) {
	repo := &fakeScheduleRepo{
		schedule: &domain.DoctorSchedule{
			DoctorID: 1,
			Windows: map[time.Weekday][]domain.WorkingWindow{
				time.Friday: {{OpenTime: "09:00", CloseTime: "17:00"}},
				time.Monday: {{OpenTime: "10:00", CloseTime: "14:00"}},
			},
		},
	}
	svc := newTestService(repo)

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	// Дни идут с понедельника
	require.Len(t, resp.Windows, 2)
	assert.Equal(t, "monday", resp.Windows[0].Weekday)
	assert.Equal(t, "friday", resp.Windows[1].Weekday)
	assert.Equal(t, "09:00", resp.Windows[1].OpenTime)
}

func TestGet_NotFound(t *testing.T) {
	repo := &fakeScheduleRepo{getErr: scheduleRepo.ErrScheduleNotFound}
	svc := newTestService(repo)

	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestReplace(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := newTestService(repo)

	resp, err := svc.Replace(context.Background(), &models.ReplaceScheduleRequest{
		UserID:   staffID,
		DoctorID: 1,
		Windows: []models.ScheduleWindow{
			{Weekday: "friday", OpenTime: "13:00", CloseTime: "17:00"},
			{Weekday: "friday", OpenTime: "09:00", CloseTime: "12:00"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), repo.replacedDoctorID)
	// Интервалы внутри дня отсортированы по времени открытия
	require.Len(t, repo.replacedWindows[time.Friday], 2)
	assert.Equal(t, "09:00", string(repo.replacedWindows[time.Friday][0].OpenTime))

	require.Len(t, resp.Windows, 2)
	assert.Equal(t, "09:00", resp.Windows[0].OpenTime)
	assert.Equal(t, "13:00", resp.Windows[1].OpenTime)
}

func TestReplace_RunsInSingleTransaction(t *testing.T) {
	repo := &fakeScheduleRepo{}
	txManager := &fakeTxManager{}
	svc := NewService(repo, &fakeStaffClient{staffIDs: map[int64]bool{staffID: true}}, txManager, nopLogger{})

	_, err := svc.Replace(context.Background(), &models.ReplaceScheduleRequest{
		UserID:   staffID,
		DoctorID: 1,
		Windows: []models.ScheduleWindow{
			{Weekday: "monday", OpenTime: "09:00", CloseTime: "17:00"},
		},
	})
	require.NoError(t, err)

	// Удаление, вставка и перечитывание идут в одной транзакции:
	// сбой между ними не должен оставить врача без расписания
	assert.Equal(t, 1, txManager.calls)
	assert.True(t, repo.replacedInTx)
	assert.True(t, repo.reloadedInTx)
}

func TestReplace_StaffOnly(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := newTestService(repo)

	_, err := svc.Replace(context.Background(), &models.ReplaceScheduleRequest{
		UserID:   7,
		DoctorID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestReplace_EmptyWindowsClearsSchedule(t *testing.T) {
	repo := &fakeScheduleRepo{
		schedule: &domain.DoctorSchedule{
			DoctorID: 1,
			Windows: map[time.Weekday][]domain.WorkingWindow{
				time.Friday: {{OpenTime: "09:00", CloseTime: "17:00"}},
			},
		},
	}
	svc := newTestService(repo)

	resp, err := svc.Replace(context.Background(), &models.ReplaceScheduleRequest{
		UserID:   staffID,
		DoctorID: 1,
		Windows:  []models.ScheduleWindow{},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Windows)
}

func TestReplace_Validation(t *testing.T) {
	tests := []struct {
		name   string
		window models.ScheduleWindow
	}{
		{
			name:   "unknown weekday",
			window: models.ScheduleWindow{Weekday: "someday", OpenTime: "09:00", CloseTime: "17:00"},
		},
		{
			name:   "bad open time",
			window: models.ScheduleWindow{Weekday: "monday", OpenTime: "9am", CloseTime: "17:00"},
		},
		{
			name:   "bad close time",
			window: models.ScheduleWindow{Weekday: "monday", OpenTime: "09:00", CloseTime: "25:00"},
		},
		{
			name:   "open equals close",
			window: models.ScheduleWindow{Weekday: "monday", OpenTime: "09:00", CloseTime: "09:00"},
		},
		{
			name:   "open after close",
			window: models.ScheduleWindow{Weekday: "monday", OpenTime: "17:00", CloseTime: "09:00"},
		},
	}

	repo := &fakeScheduleRepo{}
	svc := newTestService(repo)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Replace(context.Background(), &models.ReplaceScheduleRequest{
				UserID:   staffID,
				DoctorID: 1,
				Windows:  []models.ScheduleWindow{tt.window},
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
