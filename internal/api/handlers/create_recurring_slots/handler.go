package create_recurring_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	createRecurring "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_recurring_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные базового слота"
	msgInvalidPattern     = "некорректное правило повторения"
)

type Handler struct {
	useCase CreateRecurringSlotsUseCase
	logger  Logger
}

func NewHandler(useCase CreateRecurringSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/recurring
// Конфликтующие даты не прерывают серию и возвращаются в rejected.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRecurringRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/recurring - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /slots/recurring - Base slot rejected: provider_id=%s, error=%v", req.BaseSlot.ProviderID, err)
			return
		}

		switch {
		case errors.Is(err, createRecurring.ErrInvalidPattern):
			h.logger.Warn("POST /slots/recurring - Invalid pattern: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPattern)

		case errors.Is(err, createRecurring.ErrInvalidInput):
			h.logger.Warn("POST /slots/recurring - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createRecurring.ErrProviderBusy):
			h.logger.Warn("POST /slots/recurring - Provider busy: provider_id=%s", req.BaseSlot.ProviderID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /slots/recurring - Failed to create series: provider_id=%s, error=%v", req.BaseSlot.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/recurring - Series created: provider_id=%s, accepted=%d, rejected=%d",
		req.BaseSlot.ProviderID, len(result.Accepted), len(result.Rejected))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
