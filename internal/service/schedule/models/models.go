package models

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidWindow возвращается при некорректном рабочем интервале
	ErrInvalidWindow = errors.New("invalid working window")
)

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// weekdayOrder порядок дней в ответе: неделя начинается с понедельника
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Request модели

// ScheduleWindow рабочий интервал врача в конкретный день недели
type ScheduleWindow struct {
	Weekday   string `json:"weekday"`   // "monday" ... "sunday"
	OpenTime  string `json:"openTime"`  // "09:00"
	CloseTime string `json:"closeTime"` // "17:00"
}

// ReplaceScheduleRequest запрос на полную замену расписания врача
type ReplaceScheduleRequest struct {
	UserID   int64            `json:"userId"`
	DoctorID int64            `json:"doctorId"`
	Windows  []ScheduleWindow `json:"windows"`
}

// ToDomainWindows валидирует и конвертирует интервалы в domain представление
func (r *ReplaceScheduleRequest) ToDomainWindows() (map[time.Weekday][]domain.WorkingWindow, error) {
	result := make(map[time.Weekday][]domain.WorkingWindow, len(r.Windows))

	for _, w := range r.Windows {
		weekday, ok := weekdayNames[w.Weekday]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, w.Weekday)
		}

		open, err := types.NewTimeStringFromString(w.OpenTime)
		if err != nil {
			return nil, fmt.Errorf("%w: openTime %q: %v", ErrInvalidWindow, w.OpenTime, err)
		}

		cls, err := types.NewTimeStringFromString(w.CloseTime)
		if err != nil {
			return nil, fmt.Errorf("%w: closeTime %q: %v", ErrInvalidWindow, w.CloseTime, err)
		}

		if !open.IsBefore(cls) {
			return nil, fmt.Errorf("%w: openTime %s must be before closeTime %s", ErrInvalidWindow, open, cls)
		}

		result[weekday] = append(result[weekday], domain.WorkingWindow{
			OpenTime:  open,
			CloseTime: cls,
		})
	}

	// Сортируем интервалы внутри дня по времени открытия
	for _, windows := range result {
		sort.Slice(windows, func(i, j int) bool {
			return windows[i].OpenTime.IsBefore(windows[j].OpenTime)
		})
	}

	return result, nil
}

// Response модели

// ScheduleResponse ответ с расписанием врача
type ScheduleResponse struct {
	DoctorID int64            `json:"doctorId"`
	Windows  []ScheduleWindow `json:"windows"`
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.DoctorSchedule) *ScheduleResponse {
	if s == nil {
		return nil
	}

	windows := make([]ScheduleWindow, 0)
	for _, weekday := range weekdayOrder {
		for _, w := range s.Windows[weekday] {
			windows = append(windows, ScheduleWindow{
				Weekday:   weekdayName(weekday),
				OpenTime:  w.OpenTime.String(),
				CloseTime: w.CloseTime.String(),
			})
		}
	}

	return &ScheduleResponse{
		DoctorID: s.DoctorID,
		Windows:  windows,
	}
}

func weekdayName(d time.Weekday) string {
	for name, weekday := range weekdayNames {
		if weekday == d {
			return name
		}
	}
	return ""
}
