package set_current_timezone

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/timezone"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnknownTimezone    = "неизвестный часовой пояс"
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

// Handle PUT /api/v1/timezones/current
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SetCurrentTimezoneRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /timezones/current - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.zones.SetCurrentZone(req.Timezone); err != nil {
		if errors.Is(err, timezone.ErrUnknownTimezone) {
			h.logger.Warn("PUT /timezones/current - Unknown timezone: %s", req.Timezone)
			handlers.RespondBadRequest(w, msgUnknownTimezone)
			return
		}
		h.logger.Error("PUT /timezones/current - Failed to set timezone: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /timezones/current - Current timezone set: %s", req.Timezone)
	handlers.RespondJSON(w, http.StatusOK, CurrentTimezoneResponse{Timezone: h.zones.CurrentZone()})
}
