package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotNotEditable возвращается при изменении отмененного или истекшего слота
	ErrSlotNotEditable = errors.New("slot is cancelled or expired")

	// ErrSlotHasBookings возвращается при переносе слота с активными бронированиями
	ErrSlotHasBookings = errors.New("slot has bookings and cannot be moved")

	// ErrUnknownTimezone возвращается для часового пояса вне таблицы
	ErrUnknownTimezone = errors.New("unknown timezone")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrProviderBusy возвращается, когда блокировку провайдера не удалось получить
	ErrProviderBusy = errors.New("provider is busy, try again later")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
