package sequence

import (
	"context"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository атомарный счётчик для генерации человекочитаемых
// идентификаторов приёмов. Счётчик ведётся на календарный год.
//
// Наивный вариант "посчитать строки за год + 1" под конкурентной записью
// выдаёт дубликаты, поэтому номер выделяется атомарным UPSERT ... RETURNING.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счётчиков
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Next атомарно выделяет следующий порядковый номер для указанного года
func (r *Repository) Next(ctx context.Context, year int) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointment_id_sequences").
		Columns("year", "counter").
		Values(year, 1).
		Suffix("ON CONFLICT (year) DO UPDATE SET counter = appointment_id_sequences.counter + 1").
		Suffix("RETURNING counter").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Next - build upsert query: %v", ErrExecQuery, err)
	}

	var counter int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&counter); err != nil {
		return 0, fmt.Errorf("%w: Next - allocate sequence for year %d: %v", ErrExecQuery, year, err)
	}

	return counter, nil
}
