package create_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	createSlot "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidProviderID  = "некорректный ID провайдера"
)

type Handler struct {
	useCase CreateSlotUseCase
	logger  Logger
}

func NewHandler(useCase CreateSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /slots - Slot rejected: provider_id=%s, date=%s, error=%v", req.ProviderID, req.Date, err)
			return
		}

		switch {
		case errors.Is(err, createSlot.ErrInvalidInput):
			h.logger.Warn("POST /slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProviderID)

		case errors.Is(err, createSlot.ErrProviderBusy):
			h.logger.Warn("POST /slots - Provider busy: provider_id=%s", req.ProviderID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /slots - Failed to create slot: provider_id=%s, error=%v", req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slot created successfully: slot_id=%s, provider_id=%s", slot.ID, slot.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}
