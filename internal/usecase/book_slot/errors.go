package book_slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("book_slot: slot not found")

	// ErrSlotFull возвращается, когда в слоте нет мест или он отменен/истек
	ErrSlotFull = errors.New("book_slot: slot is full or unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_slot: invalid input data")

	// ErrProviderBusy возвращается, когда блокировку провайдера не удалось получить
	ErrProviderBusy = errors.New("book_slot: provider is busy, try again later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_slot: internal error")
)
