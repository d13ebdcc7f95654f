package list_timezones

import (
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

type Handler struct {
	zones  ZoneResolver
	logger Logger
}

func NewHandler(zones ZoneResolver, logger Logger) *Handler {
	return &Handler{
		zones:  zones,
		logger: logger,
	}
}

// Handle GET /api/v1/timezones
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result := FromZones(h.zones.CurrentZone(), h.zones.ListZones())

	h.logger.Info("GET /timezones - Timezones listed: count=%d, current=%s", len(result.Timezones), result.Current)
	handlers.RespondJSON(w, http.StatusOK, result)
}
