package convert_time

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/timezone"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle POST /api/v1/timezones/convert
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ConvertTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /timezones/convert - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	t, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		h.logger.Warn("POST /timezones/convert - Invalid time: %s", req.Time)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	resp := ConvertTimeResponse{FromTimezone: req.FromTimezone, ToTimezone: req.ToTimezone}

	if req.Date == "" {
		converted, err := h.zones.Convert(t, req.FromTimezone, req.ToTimezone)
		if err != nil {
			h.respondConvertError(w, req, err)
			return
		}
		resp.Time = converted.String()
	} else {
		date, err := domain.ParseDate(req.Date)
		if err != nil {
			h.logger.Warn("POST /timezones/convert - Invalid date: %s", req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		convertedDate, converted, err := h.zones.ConvertDate(date, t, req.FromTimezone, req.ToTimezone)
		if err != nil {
			h.respondConvertError(w, req, err)
			return
		}
		resp.Date = convertedDate.Format(domain.DateFormat)
		resp.Time = converted.String()
	}

	h.logger.Info("POST /timezones/convert - Converted %s %s -> %s %s",
		req.Time, req.FromTimezone, resp.Time, req.ToTimezone)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondConvertError(w http.ResponseWriter, req ConvertTimeRequest, err error) {
	switch {
	case errors.Is(err, timezone.ErrUnknownTimezone):
		h.logger.Warn("POST /timezones/convert - Unknown timezone: from=%s, to=%s", req.FromTimezone, req.ToTimezone)
		handlers.RespondBadRequest(w, msgUnknownTimezone)

	case errors.Is(err, timezone.ErrInvalidTime):
		h.logger.Warn("POST /timezones/convert - Invalid time: %s", req.Time)
		handlers.RespondBadRequest(w, msgInvalidTime)

	default:
		h.logger.Error("POST /timezones/convert - Failed to convert: %v", err)
		handlers.RespondInternalError(w)
	}
}
