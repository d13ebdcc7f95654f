package conflicts

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Validate структурная проверка черновика слота. Возвращает все найденные ошибки.
// Нулевые slot_duration, break_duration и max_appointments считаются не заданными.
func Validate(draft domain.SlotDraft, policy Policy) []domain.ValidationFailure {
	var failures []domain.ValidationFailure

	if draft.Date == "" {
		failures = append(failures, required("date"))
	} else if _, err := domain.ParseDate(draft.Date); err != nil {
		failures = append(failures, invalid("date", "date must be in YYYY-MM-DD format"))
	}

	start, startOK := parseTime(draft.StartTime, "start_time", &failures)
	end, endOK := parseTime(draft.EndTime, "end_time", &failures)
	if startOK && endOK && !start.IsBefore(end) {
		failures = append(failures, invalid("end_time", "end_time must be after start_time"))
	}

	checkRange(&failures, "slot_duration", draft.SlotDuration, policy.MinSlotDuration, policy.MaxSlotDuration)
	checkRange(&failures, "break_duration", draft.BreakDuration, policy.MinBreakDuration, policy.MaxBreakDuration)
	checkRange(&failures, "max_appointments", draft.MaxAppointments, policy.MinAppointments, policy.MaxAppointments)

	if draft.Location.RequiresAddress() && draft.Location.Address == "" {
		failures = append(failures, domain.ValidationFailure{
			Field:        "location.address",
			Required:     true,
			ErrorMessage: "address is required for physical locations",
		})
	}

	if draft.Timezone != "" && policy.Zones != nil && !policy.Zones.IsKnown(draft.Timezone) {
		failures = append(failures, invalid("timezone", fmt.Sprintf("unknown timezone %q", draft.Timezone)))
	}

	return failures
}

func parseTime(raw, field string, failures *[]domain.ValidationFailure) (types.TimeString, bool) {
	if raw == "" {
		*failures = append(*failures, required(field))
		return "", false
	}
	t, err := types.NewTimeStringFromString(raw)
	if err != nil {
		*failures = append(*failures, invalid(field, field+" must be in HH:MM format"))
		return "", false
	}
	return t, true
}

func checkRange(failures *[]domain.ValidationFailure, field string, value, lo, hi int) {
	if value == 0 {
		return
	}
	if value < lo || value > hi {
		*failures = append(*failures, domain.ValidationFailure{
			Field:        field,
			MinValue:     ptr.Ptr(lo),
			MaxValue:     ptr.Ptr(hi),
			ErrorMessage: fmt.Sprintf("%s must be between %d and %d", field, lo, hi),
		})
	}
}

func required(field string) domain.ValidationFailure {
	return domain.ValidationFailure{
		Field:        field,
		Required:     true,
		ErrorMessage: field + " is required",
	}
}

func invalid(field, msg string) domain.ValidationFailure {
	return domain.ValidationFailure{Field: field, ErrorMessage: msg}
}
