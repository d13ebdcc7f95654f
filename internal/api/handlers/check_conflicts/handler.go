package check_conflicts

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	checkConflicts "github.com/m04kA/SMC-AvailabilityService/internal/usecase/check_conflicts"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный ID провайдера или слота"
)

type Handler struct {
	useCase CheckConflictsUseCase
	logger  Logger
}

func NewHandler(useCase CheckConflictsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/check-conflicts
// Ответ всегда 200: конфликты и ошибки проверки возвращаются в теле.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req checkConflicts.Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/check-conflicts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, checkConflicts.ErrInvalidInput):
			h.logger.Warn("POST /slots/check-conflicts - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /slots/check-conflicts - Failed to check conflicts: provider_id=%s, error=%v", req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/check-conflicts - Checked: provider_id=%s, conflicts=%d, validation_errors=%d",
		req.ProviderID, len(result.Conflicts), len(result.ValidationErrors))
	handlers.RespondJSON(w, http.StatusOK, result)
}
