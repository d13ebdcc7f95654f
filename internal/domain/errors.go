package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation слот не прошел структурную проверку
	ErrValidation = errors.New("domain: validation failed")

	// ErrConflict слот конфликтует с расписанием провайдера
	ErrConflict = errors.New("domain: slot conflicts detected")
)

// ValidationError все ошибки проверки черновика слота
type ValidationError struct {
	Failures []ValidationFailure
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Field+": "+f.ErrorMessage)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConflictError все конфликты кандидата с существующими слотами
type ConflictError struct {
	Conflicts []SlotConflict
}

func (e *ConflictError) Error() string {
	msgs := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		msgs = append(msgs, c.Message)
	}
	return fmt.Sprintf("%s: %s", ErrConflict, strings.Join(msgs, "; "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
