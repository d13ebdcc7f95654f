package check_availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// CheckAvailabilityRequest HTTP request model
type CheckAvailabilityRequest struct {
	Date      string `json:"date"`       // "2025-10-15"
	StartTime string `json:"start_time"` // "10:00"
	EndTime   string `json:"end_time"`   // "10:30"
}

// Parse разбирает дату и время интервала
func (r *CheckAvailabilityRequest) Parse() (time.Time, types.TimeString, types.TimeString, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return time.Time{}, "", "", err
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return time.Time{}, "", "", err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return time.Time{}, "", "", err
	}
	return date, start, end, nil
}
