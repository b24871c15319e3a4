package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	scheduleStorage "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (f *fakeAppointmentRepo) GetByDoctorWithFilter(_ context.Context, _ domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.appointments, nil
}

type fakeScheduleRepo struct {
	schedule *domain.DoctorSchedule
	err      error
}

func (f *fakeScheduleRepo) GetByDoctorID(_ context.Context, _ int64) (*domain.DoctorSchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.schedule, nil
}

type fakeStaffClient struct {
	err error
}

func (f *fakeStaffClient) GetDoctor(_ context.Context, doctorID int64) (*staffservice.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &staffservice.Doctor{ID: doctorID, IsAcceptingPatients: true}, nil
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

// now фиксировано: среда 2025-10-01 10:00
var testNow = time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)

// slotsDate пятница через девять дней
var slotsDate = time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)

func newUseCaseForTest(policy domain.BookingPolicy, scheduleRepo *fakeScheduleRepo, apptRepo *fakeAppointmentRepo) *UseCase {
	uc := NewUseCase(apptRepo, scheduleRepo, &fakeStaffClient{}, policy, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return uc
}

func fridaySchedule(open, close types.TimeString) *fakeScheduleRepo {
	return &fakeScheduleRepo{
		schedule: &domain.DoctorSchedule{
			DoctorID: 1,
			Windows: map[time.Weekday][]domain.WorkingWindow{
				time.Friday: {{OpenTime: open, CloseTime: close}},
			},
		},
	}
}

func slotTimes(slots []Slot) []types.TimeString {
	out := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime)
	}
	return out
}

func TestExecute_GeneratesGrid(t *testing.T) {
	uc := newUseCaseForTest(
		domain.BookingPolicy{SlotGranularityMinutes: 30},
		fridaySchedule("09:00", "11:00"),
		&fakeAppointmentRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 1, Date: slotsDate})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultDurationMinutes, resp.DurationMinutes)
	// Слот 10:30-11:00 помещается в окно целиком, 11:00 уже нет
	assert.Equal(t,
		[]types.TimeString{"09:00", "09:30", "10:00", "10:30"},
		slotTimes(resp.Slots),
	)
	assert.Equal(t, types.TimeString("09:30"), resp.Slots[0].EndTime)
}

func TestExecute_SlotMustFitWithinWindow(t *testing.T) {
	uc := newUseCaseForTest(
		domain.BookingPolicy{SlotGranularityMinutes: 30},
		fridaySchedule("09:00", "11:00"),
		&fakeAppointmentRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:        1,
		Date:            slotsDate,
		DurationMinutes: 90,
	})
	require.NoError(t, err)

	// 09:30 + 90 минут = 11:00, ровно к закрытию; 10:00 уже не помещается
	assert.Equal(t, []types.TimeString{"09:00", "09:30"}, slotTimes(resp.Slots))
	assert.Equal(t, 90, resp.DurationMinutes)
}

func TestExecute_TakenSlotsExcluded(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{
			{DoctorID: 1, StartTime: "09:30", Status: domain.StatusScheduled},
			// Отменённый приём слот не занимает
			{DoctorID: 1, StartTime: "10:00", Status: domain.StatusCancelled},
		},
	}
	uc := newUseCaseForTest(
		domain.BookingPolicy{SlotGranularityMinutes: 30},
		fridaySchedule("09:00", "11:00"),
		apptRepo,
	)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 1, Date: slotsDate})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"09:00", "10:00", "10:30"}, slotTimes(resp.Slots))
}

func TestExecute_TodayExcludesStartedSlots(t *testing.T) {
	// testNow это среда, окно на среду
	scheduleRepo := &fakeScheduleRepo{
		schedule: &domain.DoctorSchedule{
			DoctorID: 1,
			Windows: map[time.Weekday][]domain.WorkingWindow{
				time.Wednesday: {{OpenTime: "09:00", CloseTime: "11:00"}},
			},
		},
	}
	uc := newUseCaseForTest(
		domain.BookingPolicy{SlotGranularityMinutes: 30},
		scheduleRepo,
		&fakeAppointmentRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 1, Date: testNow})
	require.NoError(t, err)

	// Сейчас 10:00: слоты до 10:00 уже начались, слот ровно в 10:00 ещё доступен
	assert.Equal(t, []types.TimeString{"10:00", "10:30"}, slotTimes(resp.Slots))
}

func TestExecute_PastDateReturnsEmptySlots(t *testing.T) {
	uc := newUseCaseForTest(
		domain.BookingPolicy{SlotGranularityMinutes: 30},
		fridaySchedule("09:00", "11:00"),
		&fakeAppointmentRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID: 1,
		Date:     testNow.AddDate(0, 0, -1),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DayOffReturnsEmptySlots(t *testing.T) {
	uc := newUseCaseForTest(
		domain.BookingPolicy{SlotGranularityMinutes: 30},
		fridaySchedule("09:00", "11:00"),
		&fakeAppointmentRepo{},
	)

	// Суббота, окна нет
	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID: 1,
		Date:     slotsDate.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NoScheduleFallsBackToDefaultWindow(t *testing.T) {
	uc := newUseCaseForTest(
		domain.BookingPolicy{
			SlotGranularityMinutes: 60,
			DefaultWindow:          &domain.WorkingWindow{OpenTime: "09:00", CloseTime: "11:00"},
		},
		&fakeScheduleRepo{err: scheduleStorage.ErrScheduleNotFound},
		&fakeAppointmentRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 1, Date: slotsDate})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"09:00", "10:00"}, slotTimes(resp.Slots))
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	uc := newUseCaseForTest(
		domain.BookingPolicy{SlotGranularityMinutes: 30, MaxAdvanceDays: 5},
		fridaySchedule("09:00", "11:00"),
		&fakeAppointmentRepo{},
	)

	_, err := uc.Execute(context.Background(), &Request{DoctorID: 1, Date: slotsDate})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_DoctorNotFound(t *testing.T) {
	uc := newUseCaseForTest(
		domain.BookingPolicy{SlotGranularityMinutes: 30},
		fridaySchedule("09:00", "11:00"),
		&fakeAppointmentRepo{},
	)
	uc.staffClient = &fakeStaffClient{err: staffservice.ErrDoctorNotFound}

	_, err := uc.Execute(context.Background(), &Request{DoctorID: 404, Date: slotsDate})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newUseCaseForTest(
		domain.BookingPolicy{SlotGranularityMinutes: 30},
		fridaySchedule("09:00", "11:00"),
		&fakeAppointmentRepo{},
	)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "missing doctor", req: &Request{Date: slotsDate}},
		{name: "missing date", req: &Request{DoctorID: 1}},
		{name: "duration too short", req: &Request{DoctorID: 1, Date: slotsDate, DurationMinutes: 10}},
		{name: "duration too long", req: &Request{DoctorID: 1, Date: slotsDate, DurationMinutes: 481}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
