package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий расписаний врачей.
// Расписание хранится построчно: одна строка = одно рабочее окно
// (doctor_id, weekday, open_time, close_time).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDoctorID собирает расписание врача из строк рабочих окон.
// Если окон нет вообще, возвращает ErrScheduleNotFound.
func (r *Repository) GetByDoctorID(ctx context.Context, doctorID int64) (*domain.DoctorSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"open_time",
		"close_time",
		"created_at",
		"updated_at",
	).
		From("doctor_schedules").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		OrderBy("weekday ASC, open_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sched := &domain.DoctorSchedule{
		DoctorID: doctorID,
		Windows:  make(map[time.Weekday][]domain.WorkingWindow),
	}

	found := false
	for rows.Next() {
		var weekday int
		var window domain.WorkingWindow
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&weekday, &window.OpenTime, &window.CloseTime, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetByDoctorID - scan row: %v", ErrScanRow, err)
		}

		sched.Windows[time.Weekday(weekday)] = append(sched.Windows[time.Weekday(weekday)], window)
		if createdAt.Time.After(sched.CreatedAt) {
			sched.CreatedAt = createdAt.Time
		}
		if updatedAt.Time.After(sched.UpdatedAt) {
			sched.UpdatedAt = updatedAt.Time
		}
		found = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorID - rows error: %v", ErrScanRow, err)
	}

	if !found {
		return nil, ErrScheduleNotFound
	}

	return sched, nil
}

// Replace заменяет расписание врача целиком: удаляет старые окна
// и вставляет новые. Вызывается внутри транзакции.
func (r *Repository) Replace(ctx context.Context, doctorID int64, windows map[time.Weekday][]domain.WorkingWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("doctor_schedules").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: Replace - execute delete: %v", ErrExecQuery, err)
	}

	insertBuilder := psqlbuilder.Insert("doctor_schedules").
		Columns("doctor_id", "weekday", "open_time", "close_time")

	empty := true
	for weekday, dayWindows := range windows {
		for _, window := range dayWindows {
			insertBuilder = insertBuilder.Values(doctorID, int(weekday), window.OpenTime, window.CloseTime)
			empty = false
		}
	}

	// Пустое расписание = врач нигде не принимает, вставлять нечего
	if empty {
		return nil
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: Replace - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
