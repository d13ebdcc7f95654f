package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

const (
	msgInternalError      = "внутренняя ошибка сервера"
	msgValidationFailed   = "данные слота не прошли проверку"
	msgConflictsDetected  = "слот конфликтует с расписанием провайдера"
	msgServiceUnavailable = "провайдер занят, повторите запрос позже"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error            string                     `json:"error"`
	ValidationErrors []models.ValidationFailure `json:"validation_errors,omitempty"`
	Conflicts        []models.SlotConflict      `json:"conflicts,omitempty"`
}

// RespondJSON пишет data как JSON с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError ответ {"error": message}
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

func RespondServiceUnavailable(w http.ResponseWriter) {
	RespondError(w, http.StatusServiceUnavailable, msgServiceUnavailable)
}

// RespondDomainError отвечает 422 со всеми ошибками проверки или 409 со всеми конфликтами.
// Возвращает false, если err не относится к ним.
func RespondDomainError(w http.ResponseWriter, err error) bool {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		RespondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:            msgValidationFailed,
			ValidationErrors: models.FromDomainFailures(validationErr.Failures),
		})
		return true
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		RespondJSON(w, http.StatusConflict, ErrorResponse{
			Error:     msgConflictsDetected,
			Conflicts: models.FromDomainConflicts(conflictErr.Conflicts),
		})
		return true
	}

	return false
}

// DecodeJSON декодирует тело запроса в v
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}

// DecodeOptionalJSON как DecodeJSON, но пустое тело не ошибка
func DecodeOptionalJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// PathUUID читает UUID из переменной пути
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return uuid.Nil, fmt.Errorf("path variable %s is missing", name)
	}
	return uuid.Parse(raw)
}
