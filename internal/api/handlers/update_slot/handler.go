package update_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "слот не найден"
	msgNotEditable        = "слот отменен или истек"
	msgHasBookings        = "нельзя перенести слот с активными бронированиями"
	msgInvalidInput       = "некорректные данные слота"
	msgUnknownTimezone    = "неизвестный часовой пояс"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathUUID(r, "slotId")
	if err != nil {
		h.logger.Warn("PUT /slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req models.UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /slots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.service.UpdateSlot(r.Context(), slotID, &req)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("PUT /slots/{id} - Update rejected: slot_id=%s, error=%v", slotID, err)
			return
		}

		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PUT /slots/{id} - Slot not found: slot_id=%s", slotID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, slots.ErrSlotNotEditable):
			h.logger.Warn("PUT /slots/{id} - Slot not editable: slot_id=%s", slotID)
			handlers.RespondConflict(w, msgNotEditable)

		case errors.Is(err, slots.ErrSlotHasBookings):
			h.logger.Warn("PUT /slots/{id} - Slot has bookings: slot_id=%s", slotID)
			handlers.RespondConflict(w, msgHasBookings)

		case errors.Is(err, slots.ErrUnknownTimezone):
			h.logger.Warn("PUT /slots/{id} - Unknown timezone: slot_id=%s", slotID)
			handlers.RespondBadRequest(w, msgUnknownTimezone)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("PUT /slots/{id} - Invalid input: slot_id=%s, error=%v", slotID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, slots.ErrProviderBusy):
			h.logger.Warn("PUT /slots/{id} - Provider busy: slot_id=%s", slotID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PUT /slots/{id} - Failed to update slot: slot_id=%s, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /slots/{id} - Slot updated successfully: slot_id=%s", slotID)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
