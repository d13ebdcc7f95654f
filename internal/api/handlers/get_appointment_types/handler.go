package get_appointment_types

import (
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// AppointmentTypeResponse тип приема из справочника
type AppointmentTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Color       string `json:"color"`
	Category    string `json:"category"`
}

// Handle GET /api/v1/appointment-types
func Handle(w http.ResponseWriter, r *http.Request) {
	out := make([]AppointmentTypeResponse, 0, len(domain.AppointmentTypes))
	for _, t := range domain.AppointmentTypes {
		out = append(out, AppointmentTypeResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Duration:    t.Duration,
			Color:       t.Color,
			Category:    string(t.Category),
		})
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}
