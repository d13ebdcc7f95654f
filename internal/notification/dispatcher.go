package notification

import (
	"context"
	"sync"
	"time"
)

// Sender доставляет событие получателю
type Sender interface {
	Send(ctx context.Context, event Event) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Dispatcher асинхронная отправка событий через буферизованную очередь.
// Publish не блокируется: при переполнении очереди событие отбрасывается.
// Ошибки доставки только логируются, повторов нет.
type Dispatcher struct {
	sender  Sender
	logger  Logger
	timeout time.Duration
	queue   chan Event

	startOnce sync.Once
	stopOnce  sync.Once
	mu        sync.RWMutex
	closed    bool
	done      chan struct{}
}

// NewDispatcher создает диспетчер с очередью queueSize
func NewDispatcher(sender Sender, queueSize int, timeout time.Duration, logger Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan Event, queueSize),
		done:    make(chan struct{}),
	}
}

// Start запускает воркер доставки
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		go d.run()
	})
}

// Publish ставит событие в очередь
func (d *Dispatcher) Publish(event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- event:
	default:
		d.logger.Warn("Notification queue is full, dropping event type=%s, slot_id=%s", event.Type, event.SlotID)
	}
}

// Stop закрывает очередь и ждет доставки оставшихся событий, но не дольше ctx
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	d.Start()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sender.Send(ctx, event); err != nil {
		d.logger.Error("Failed to deliver event id=%s, type=%s: %v", event.ID, event.Type, err)
		return
	}
	d.logger.Info("Event delivered: id=%s, type=%s", event.ID, event.Type)
}

// Nop издатель, отбрасывающий события (уведомления выключены)
type Nop struct{}

func (Nop) Publish(Event) {}
