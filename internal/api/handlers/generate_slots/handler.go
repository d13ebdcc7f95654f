package generate_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	generateSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/generate_schedule_slots"
)

const (
	msgInvalidProviderID  = "некорректный ID провайдера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный период генерации"
	msgScheduleNotFound   = "расписание провайдера не найдено"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/providers/{providerId}/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathUUID(r, "providerId")
	if err != nil {
		h.logger.Warn("POST /providers/{id}/slots/generate - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req models.GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /providers/{id}/slots/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), providerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrScheduleNotFound):
			h.logger.Warn("POST /providers/{id}/slots/generate - Schedule not found: provider_id=%s", providerID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /providers/{id}/slots/generate - Invalid input: provider_id=%s, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, generateSlots.ErrProviderBusy):
			h.logger.Warn("POST /providers/{id}/slots/generate - Provider busy: provider_id=%s", providerID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /providers/{id}/slots/generate - Failed to generate slots: provider_id=%s, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /providers/{id}/slots/generate - Slots generated: provider_id=%s, accepted=%d, rejected=%d",
		providerID, len(result.Accepted), len(result.Rejected))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
