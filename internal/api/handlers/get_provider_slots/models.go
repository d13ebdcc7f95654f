package get_provider_slots

import (
	"net/url"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

// ToServiceRequest собирает фильтры из query параметров
// date, date_from, date_to, status, appointment_type
func ToServiceRequest(query url.Values) (*models.ListSlotsRequest, error) {
	req := &models.ListSlotsRequest{}

	dates := []struct {
		key    string
		target **time.Time
	}{
		{"date", &req.Date},
		{"date_from", &req.DateFrom},
		{"date_to", &req.DateTo},
	}
	for _, d := range dates {
		raw := query.Get(d.key)
		if raw == "" {
			continue
		}
		parsed, err := domain.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		*d.target = &parsed
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if appointmentType := query.Get("appointment_type"); appointmentType != "" {
		req.AppointmentType = &appointmentType
	}

	return req, nil
}
