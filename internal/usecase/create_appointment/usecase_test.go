package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptStorage "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	scheduleStorage "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/patientservice"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/HMS-AppointmentService/internal/notify"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Фейки зависимостей

type fakeAppointmentRepo struct {
	existing   []*domain.Appointment
	createErr  error
	lastFilter *domain.DoctorAppointmentsFilter
	created    *domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *appt
	stored.ID = 1001
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.created = &stored
	return &stored, nil
}

func (f *fakeAppointmentRepo) GetByDoctorWithFilter(_ context.Context, filter domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = &filter
	return f.existing, nil
}

type fakeScheduleRepo struct {
	schedule *domain.DoctorSchedule
	err      error
	calls    int
}

func (f *fakeScheduleRepo) GetByDoctorID(_ context.Context, _ int64) (*domain.DoctorSchedule, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.schedule, nil
}

type fakeSequenceRepo struct {
	counter int64
}

func (f *fakeSequenceRepo) Next(_ context.Context, _ int) (int64, error) {
	f.counter++
	return f.counter, nil
}

type fakeStaffClient struct {
	doctor *staffservice.Doctor
	err    error
	calls  int
}

func (f *fakeStaffClient) GetDoctor(_ context.Context, _ int64) (*staffservice.Doctor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.doctor, nil
}

type fakePatientClient struct {
	err error
}

func (f *fakePatientClient) GetPatient(_ context.Context, patientID int64) (*patientservice.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &patientservice.Patient{ID: patientID}, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

// Окружение теста

type testEnv struct {
	uc           *UseCase
	apptRepo     *fakeAppointmentRepo
	scheduleRepo *fakeScheduleRepo
	sequenceRepo *fakeSequenceRepo
	staffClient  *fakeStaffClient
	notifier     *fakeNotifier
}

// now фиксировано: среда 2025-10-01 10:00
var testNow = time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)

// bookingDate пятница через девять дней
var bookingDate = time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)

func newTestEnv(policy domain.BookingPolicy) *testEnv {
	env := &testEnv{
		apptRepo: &fakeAppointmentRepo{},
		scheduleRepo: &fakeScheduleRepo{
			schedule: &domain.DoctorSchedule{
				DoctorID: 1,
				Windows: map[time.Weekday][]domain.WorkingWindow{
					time.Friday: {{OpenTime: "09:00", CloseTime: "17:00"}},
				},
			},
		},
		sequenceRepo: &fakeSequenceRepo{counter: 41},
		staffClient: &fakeStaffClient{
			doctor: &staffservice.Doctor{
				ID:                  1,
				FullName:            "Dr. House",
				IsAcceptingPatients: true,
				MaxPatientsPerDay:   0,
			},
		},
		notifier: &fakeNotifier{},
	}

	env.uc = NewUseCase(
		env.apptRepo,
		env.scheduleRepo,
		env.sequenceRepo,
		env.staffClient,
		&fakePatientClient{},
		&fakeTxManager{},
		env.notifier,
		policy,
		nopLogger{},
	)
	env.uc.timeProvider = &fakeTimeProvider{now: testNow}
	return env
}

func validRequest() *Request {
	return &Request{
		DoctorID:       1,
		PatientID:      7,
		Date:           bookingDate,
		StartTime:      "10:00",
		ChiefComplaint: "headache",
		CreatedBy:      7,
	}
}

func existingAppointment(start types.TimeString, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              500,
		DoctorID:        1,
		PatientID:       99,
		AppointmentDate: bookingDate,
		StartTime:       start,
		DurationMinutes: 30,
		Status:          status,
	}
}

// Тесты

func TestExecute_Success(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "APT2025000042", resp.AppointmentID)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DurationMinutes)
	assert.Equal(t, string(domain.KindConsultation), resp.Kind)
	assert.Equal(t, string(domain.PriorityNormal), resp.Priority)

	// Дневные приёмы запрашиваются со всеми статусами: лимит считается
	// по неотменённым, а не только по активным
	require.NotNil(t, env.apptRepo.lastFilter)
	assert.True(t, env.apptRepo.lastFilter.IncludeInactive)

	// Уведомление отправлено после создания
	require.Len(t, env.notifier.events, 1)
	assert.Equal(t, notify.EventAppointmentScheduled, env.notifier.events[0].Type)
}

func TestExecute_PastDateTime(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})

	tests := []struct {
		name  string
		date  time.Time
		start types.TimeString
	}{
		{name: "yesterday", date: testNow.AddDate(0, 0, -1), start: "10:00"},
		{name: "today earlier", date: testNow, start: "09:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.Date = tt.date
			req.StartTime = tt.start

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrPastDateTime)
		})
	}
}

func TestExecute_PastCheckRunsBeforeDoctorLookup(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})
	env.staffClient.err = staffservice.ErrDoctorNotFound

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPastDateTime)
	assert.Zero(t, env.staffClient.calls)
}

func TestExecute_DoctorNotAccepting(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})
	env.staffClient.doctor.IsAcceptingPatients = false

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDoctorNotAccepting)
}

func TestExecute_DoctorNotFound(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})
	env.staffClient.err = staffservice.ErrDoctorNotFound

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestExecute_PatientNotFound(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})
	env.uc.patientClient = &fakePatientClient{err: patientservice.ErrPatientNotFound}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{MaxAdvanceDays: 5})

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_WorkingHours(t *testing.T) {
	tests := []struct {
		name     string
		start    types.TimeString
		duration int
		wantErr  error
	}{
		{name: "inside window", start: "10:00"},
		{name: "exactly at open", start: "09:00"},
		// Проверяется только время начала: приём может закончиться
		// после закрытия окна
		{name: "exactly at close", start: "17:00"},
		{name: "runs past closing", start: "16:50", duration: 60},
		{name: "before open", start: "08:30", wantErr: ErrOutsideWorkingHours},
		{name: "after close", start: "17:30", wantErr: ErrOutsideWorkingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(domain.BookingPolicy{})
			req := validRequest()
			req.StartTime = tt.start
			req.DurationMinutes = tt.duration

			_, err := env.uc.Execute(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecute_NoScheduleNoDefaultWindow(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})
	env.scheduleRepo.schedule = nil
	env.scheduleRepo.err = scheduleStorage.ErrScheduleNotFound

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_NoScheduleFallsBackToDefaultWindow(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{
		DefaultWindow: &domain.WorkingWindow{OpenTime: "09:00", CloseTime: "17:00"},
	})
	env.scheduleRepo.schedule = nil
	env.scheduleRepo.err = scheduleStorage.ErrScheduleNotFound

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_SlotConflict(t *testing.T) {
	tests := []struct {
		name     string
		existing []*domain.Appointment
		wantErr  error
	}{
		{
			name:     "active appointment at the same start time",
			existing: []*domain.Appointment{existingAppointment("10:00", domain.StatusScheduled)},
			wantErr:  ErrSlotConflict,
		},
		{
			name:     "confirmed appointment at the same start time",
			existing: []*domain.Appointment{existingAppointment("10:00", domain.StatusConfirmed)},
			wantErr:  ErrSlotConflict,
		},
		{
			// Конфликт - это точное совпадение времени начала,
			// пересечение интервалов не проверяется
			name:     "overlapping but different start time",
			existing: []*domain.Appointment{existingAppointment("09:45", domain.StatusScheduled)},
		},
		{
			name:     "cancelled appointment frees the slot",
			existing: []*domain.Appointment{existingAppointment("10:00", domain.StatusCancelled)},
		},
		{
			name:     "completed appointment does not hold the slot",
			existing: []*domain.Appointment{existingAppointment("10:00", domain.StatusCompleted)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(domain.BookingPolicy{})
			env.apptRepo.existing = tt.existing

			_, err := env.uc.Execute(context.Background(), validRequest())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecute_CapacityExceeded(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})
	env.staffClient.doctor.MaxPatientsPerDay = 2
	// Завершённый приём тоже занимает дневной лимит
	env.apptRepo.existing = []*domain.Appointment{
		existingAppointment("09:00", domain.StatusCompleted),
		existingAppointment("09:30", domain.StatusScheduled),
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_CancelledDoesNotCountTowardsCapacity(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})
	env.staffClient.doctor.MaxPatientsPerDay = 2
	env.apptRepo.existing = []*domain.Appointment{
		existingAppointment("09:00", domain.StatusCancelled),
		existingAppointment("09:30", domain.StatusScheduled),
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_ConflictCheckedBeforeCapacity(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})
	env.staffClient.doctor.MaxPatientsPerDay = 1
	env.apptRepo.existing = []*domain.Appointment{
		existingAppointment("10:00", domain.StatusScheduled),
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_DurationBounds(t *testing.T) {
	tests := []struct {
		duration int
		wantErr  bool
	}{
		{duration: 14, wantErr: true},
		{duration: 15},
		{duration: 480},
		{duration: 481, wantErr: true},
	}

	for _, tt := range tests {
		env := newTestEnv(domain.BookingPolicy{})
		req := validRequest()
		req.DurationMinutes = tt.duration

		_, err := env.uc.Execute(context.Background(), req)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidInput, "duration %d", tt.duration)
		} else {
			assert.NoError(t, err, "duration %d", tt.duration)
		}
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "missing doctor", mutate: func(r *Request) { r.DoctorID = 0 }},
		{name: "missing patient", mutate: func(r *Request) { r.PatientID = 0 }},
		{name: "missing date", mutate: func(r *Request) { r.Date = time.Time{} }},
		{name: "missing start time", mutate: func(r *Request) { r.StartTime = "" }},
		{name: "bad start time", mutate: func(r *Request) { r.StartTime = "25:00" }},
		{name: "unknown kind", mutate: func(r *Request) { r.Kind = "walk_in" }},
		{name: "unknown priority", mutate: func(r *Request) { r.Priority = "asap" }},
		{name: "missing complaint", mutate: func(r *Request) { r.ChiefComplaint = "" }},
		{name: "follow-up without previous", mutate: func(r *Request) { r.IsFollowUp = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(domain.BookingPolicy{})
			req := validRequest()
			tt.mutate(req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_UniqueIndexRaceMapsToSlotConflict(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})
	env.apptRepo.createErr = apptStorage.ErrSlotTaken

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, env.notifier.events)
}

func TestExecute_SequentialNumbersWithinYear(t *testing.T) {
	env := newTestEnv(domain.BookingPolicy{})

	first, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.StartTime = "11:00"
	second, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "APT2025000042", first.AppointmentID)
	assert.Equal(t, "APT2025000043", second.AppointmentID)
}
