package conflicts

import "github.com/m04kA/SMC-AvailabilityService/internal/domain"

// ZoneChecker проверка имени часового пояса
type ZoneChecker interface {
	IsKnown(name string) bool
}

// Policy границы значений слота
type Policy struct {
	MinSlotDuration  int
	MaxSlotDuration  int
	MinBreakDuration int
	MaxBreakDuration int
	MinAppointments  int
	MaxAppointments  int

	// Zones nil - проверка пояса пропускается
	Zones ZoneChecker
}

// DefaultPolicy границы по умолчанию
func DefaultPolicy() Policy {
	return Policy{
		MinSlotDuration:  domain.MinSlotDurationMinutes,
		MaxSlotDuration:  domain.MaxSlotDurationMinutes,
		MinBreakDuration: domain.MinBreakDurationMinutes,
		MaxBreakDuration: domain.MaxBreakDurationMinutes,
		MinAppointments:  domain.MinAppointmentsPerSlot,
		MaxAppointments:  domain.MaxAppointmentsPerSlot,
	}
}
