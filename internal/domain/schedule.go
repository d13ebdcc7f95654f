package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// DaySchedule расписание провайдера на день недели
type DaySchedule struct {
	IsWorkingDay     bool
	StartTime        types.TimeString
	EndTime          types.TimeString
	BreakStart       *types.TimeString
	BreakEnd         *types.TimeString
	AppointmentTypes []string
	MaxAppointments  int // потолок мест на день, 0 = без ограничения
}

// HasBreak задан ли перерыв внутри дня
func (d DaySchedule) HasBreak() bool {
	return d.BreakStart != nil && d.BreakEnd != nil && d.BreakStart.IsBefore(*d.BreakEnd)
}

// WorkingHours рабочие часы по умолчанию
type WorkingHours struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// ProviderSchedule недельное расписание провайдера
type ProviderSchedule struct {
	ProviderID           uuid.UUID
	Weekdays             map[time.Weekday]DaySchedule
	Timezone             string
	DefaultSlotDuration  int
	DefaultBreakDuration int
	WorkingHours         WorkingHours
	UpdatedAt            time.Time
}

// ForDate расписание на день недели указанной даты
func (s *ProviderSchedule) ForDate(date time.Time) (DaySchedule, bool) {
	if s == nil {
		return DaySchedule{}, false
	}
	day, ok := s.Weekdays[date.Weekday()]
	if !ok || !day.IsWorkingDay {
		return DaySchedule{}, false
	}
	if day.StartTime.IsZero() {
		day.StartTime = s.WorkingHours.StartTime
	}
	if day.EndTime.IsZero() {
		day.EndTime = s.WorkingHours.EndTime
	}
	return day, true
}

// Clone глубокая копия
func (s *ProviderSchedule) Clone() *ProviderSchedule {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Weekdays = make(map[time.Weekday]DaySchedule, len(s.Weekdays))
	for wd, day := range s.Weekdays {
		day.AppointmentTypes = append([]string(nil), day.AppointmentTypes...)
		cp.Weekdays[wd] = day
	}
	return &cp
}

// WeekdayNames имена дней недели во внешнем представлении
var WeekdayNames = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

// WeekdayByName обратное отображение WeekdayNames
func WeekdayByName(name string) (time.Weekday, bool) {
	for wd, n := range WeekdayNames {
		if n == name {
			return wd, true
		}
	}
	return 0, false
}
