package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	getAppointmentTypes "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_appointment_types"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker проверка зависимостей для /health, например Ping базы
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Handlers обработчики маршрутов /api/v1
type Handlers struct {
	CreateSlot           http.HandlerFunc
	GetSlot              http.HandlerFunc
	UpdateSlot           http.HandlerFunc
	CancelSlot           http.HandlerFunc
	GetSlotBookings      http.HandlerFunc
	CreateRecurringSlots http.HandlerFunc
	CheckConflicts       http.HandlerFunc

	GenerateSlots          http.HandlerFunc
	GetProviderSlots       http.HandlerFunc
	GetAvailableSlots      http.HandlerFunc
	CheckAvailability      http.HandlerFunc
	GetAvailabilityStats   http.HandlerFunc
	GetProviderSchedule    http.HandlerFunc
	UpdateProviderSchedule http.HandlerFunc

	CreateBooking       http.HandlerFunc
	GetBooking          http.HandlerFunc
	UpdateBookingStatus http.HandlerFunc
	CancelBooking       http.HandlerFunc

	ListTimezones      http.HandlerFunc
	SetCurrentTimezone http.HandlerFunc
	ConvertTime        http.HandlerFunc
}

// RouterOptions необязательные части роутера
type RouterOptions struct {
	Metrics        middleware.HTTPMetrics // nil - без HTTP метрик
	MetricsPath    string
	MetricsHandler http.Handler
	Health         HealthChecker
}

// NewRouter собирает роутер сервиса
func NewRouter(h Handlers, logger middleware.Logger, opts RouterOptions) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
	}

	// Metrics endpoint (публичный)
	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, opts.MetricsHandler).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", healthHandler(opts.Health)).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Слоты ---
	// Статические пути регистрируются раньше /slots/{slotId}
	api.HandleFunc("/slots/recurring", h.CreateRecurringSlots).Methods(http.MethodPost)
	api.HandleFunc("/slots/check-conflicts", h.CheckConflicts).Methods(http.MethodPost)
	api.HandleFunc("/slots", h.CreateSlot).Methods(http.MethodPost)
	api.HandleFunc("/slots/{slotId}", h.GetSlot).Methods(http.MethodGet)
	api.HandleFunc("/slots/{slotId}", h.UpdateSlot).Methods(http.MethodPut)
	api.HandleFunc("/slots/{slotId}", h.CancelSlot).Methods(http.MethodDelete)
	api.HandleFunc("/slots/{slotId}/bookings", h.GetSlotBookings).Methods(http.MethodGet)

	// --- Провайдеры ---
	api.HandleFunc("/providers/{providerId}/slots", h.GetProviderSlots).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/slots/generate", h.GenerateSlots).Methods(http.MethodPost)
	api.HandleFunc("/providers/{providerId}/available-slots", h.GetAvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/check-availability", h.CheckAvailability).Methods(http.MethodPost)
	api.HandleFunc("/providers/{providerId}/availability-stats", h.GetAvailabilityStats).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/availability", h.GetProviderSchedule).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/availability", h.UpdateProviderSchedule).Methods(http.MethodPut)

	// --- Бронирования ---
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", h.UpdateBookingStatus).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{bookingId}/cancel", h.CancelBooking).Methods(http.MethodPut)

	// --- Справочники ---
	api.HandleFunc("/timezones", h.ListTimezones).Methods(http.MethodGet)
	api.HandleFunc("/timezones/current", h.SetCurrentTimezone).Methods(http.MethodPut)
	api.HandleFunc("/timezones/convert", h.ConvertTime).Methods(http.MethodPost)
	api.HandleFunc("/appointment-types", getAppointmentTypes.Handle).Methods(http.MethodGet)

	return r
}

func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := checker.PingContext(ctx); err != nil {
				handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
