package webhook

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("webhook client: internal error")

	// ErrRejected возвращается, когда получатель ответил не 2xx
	ErrRejected = errors.New("webhook client: event rejected by receiver")
)
