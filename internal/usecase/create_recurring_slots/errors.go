package create_recurring_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_recurring_slots: invalid input data")

	// ErrInvalidPattern возвращается при некорректном правиле повторения
	ErrInvalidPattern = errors.New("create_recurring_slots: invalid recurrence pattern")

	// ErrProviderBusy возвращается, когда блокировку провайдера не удалось получить
	ErrProviderBusy = errors.New("create_recurring_slots: provider is busy, try again later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_recurring_slots: internal error")
)
