package create_slot

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_slot: invalid input data")

	// ErrProviderBusy возвращается, когда блокировку провайдера не удалось получить
	ErrProviderBusy = errors.New("create_slot: provider is busy, try again later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_slot: internal error")
)
