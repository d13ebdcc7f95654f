package app

import (
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api"
	cancelBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/cancel_booking"
	cancelSlotHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/cancel_slot"
	checkAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/check_availability"
	checkConflictsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/check_conflicts"
	convertTimeHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/convert_time"
	createBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_booking"
	createRecurringHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_recurring_slots"
	createSlotHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_slot"
	generateSlotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/generate_slots"
	getAvailabilityStatsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_availability_stats"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_booking"
	getProviderScheduleHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_provider_schedule"
	getProviderSlotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_provider_slots"
	getSlotHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_slot"
	getSlotBookingsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_slot_bookings"
	listTimezonesHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/list_timezones"
	setCurrentTimezoneHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/set_current_timezone"
	updateBookingStatusHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_booking_status"
	updateProviderScheduleHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_provider_schedule"
	updateSlotHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
	bookingsService "github.com/m04kA/SMC-AvailabilityService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	slotsService "github.com/m04kA/SMC-AvailabilityService/internal/service/slots"
	"github.com/m04kA/SMC-AvailabilityService/internal/timezone"
	bookSlotUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/book_slot"
	checkConflictsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/check_conflicts"
	createRecurringUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_recurring_slots"
	createSlotUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_slot"
	generateSlotsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/generate_schedule_slots"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

// Dependencies инфраструктура, из которой собирается приложение
type Dependencies struct {
	Storage    Storage
	Locker     locker.Locker
	Zones      *timezone.Resolver
	Notifier   Notifier
	Metrics    *metrics.Metrics // nil - метрики выключены
	Scheduling config.SchedulingConfig
	Logger     *logger.Logger
}

// Notifier публикация событий слотов и бронирований
type Notifier interface {
	Publish(event notification.Event)
}

// App сервисы и use cases, собранные поверх одного хранилища
type App struct {
	Slots     *slotsService.Service
	Bookings  *bookingsService.Service
	Schedules *scheduleService.Service

	CreateSlot      *createSlotUC.UseCase
	CreateRecurring *createRecurringUC.UseCase
	GenerateSlots   *generateSlotsUC.UseCase
	CheckConflicts  *checkConflictsUC.UseCase
	BookSlot        *bookSlotUC.UseCase

	deps Dependencies
}

// PolicyFromConfig границы значений слота из секции scheduling
func PolicyFromConfig(s config.SchedulingConfig, zones conflicts.ZoneChecker) conflicts.Policy {
	policy := conflicts.DefaultPolicy()
	if s.MinSlotDuration > 0 {
		policy.MinSlotDuration = s.MinSlotDuration
	}
	if s.MaxSlotDuration > 0 {
		policy.MaxSlotDuration = s.MaxSlotDuration
	}
	if s.MinBreakDuration >= 0 && s.MaxBreakDuration > 0 {
		policy.MinBreakDuration = s.MinBreakDuration
		policy.MaxBreakDuration = s.MaxBreakDuration
	}
	if s.MaxAppointmentsPerSlot > 0 {
		policy.MaxAppointments = s.MaxAppointmentsPerSlot
	}
	policy.Zones = zones
	return policy
}

// New собирает сервисы и use cases
func New(deps Dependencies) *App {
	if deps.Notifier == nil {
		deps.Notifier = notification.Nop{}
	}

	st := deps.Storage
	policy := PolicyFromConfig(deps.Scheduling, deps.Zones)

	return &App{
		Slots: slotsService.NewService(
			st.Slots, st.Bookings, st.Schedules,
			deps.Locker, st.TxManager, deps.Zones, deps.Notifier,
			slotsService.Options{Policy: policy, AllowHardDelete: deps.Scheduling.AllowHardDelete},
			deps.Logger,
		),
		Bookings: bookingsService.NewService(
			st.Bookings, st.Slots,
			deps.Locker, st.TxManager, deps.Notifier, deps.Metrics,
			deps.Logger,
		),
		Schedules: scheduleService.NewService(st.Schedules, deps.Locker, deps.Zones, policy, deps.Logger),

		CreateSlot: createSlotUC.NewUseCase(
			st.Slots, st.Schedules, deps.Locker, st.TxManager, deps.Zones, policy, deps.Metrics, deps.Logger,
		),
		CreateRecurring: createRecurringUC.NewUseCase(
			st.Slots, st.Schedules, deps.Locker, st.TxManager, deps.Zones, policy,
			deps.Scheduling.MaxRecurrenceDays, deps.Metrics, deps.Logger,
		),
		GenerateSlots: generateSlotsUC.NewUseCase(
			st.Slots, st.Schedules, deps.Locker, st.TxManager, deps.Zones, policy, deps.Metrics, deps.Logger,
		),
		CheckConflicts: checkConflictsUC.NewUseCase(st.Slots, st.Schedules, deps.Zones, policy, deps.Logger),
		BookSlot: bookSlotUC.NewUseCase(
			st.Slots, st.Bookings, deps.Locker, st.TxManager, deps.Notifier, deps.Metrics, deps.Logger,
		),

		deps: deps,
	}
}

// Handlers HTTP обработчики всех маршрутов
func (a *App) Handlers() api.Handlers {
	log := a.deps.Logger
	zones := a.deps.Zones

	return api.Handlers{
		CreateSlot:           createSlotHandler.NewHandler(a.CreateSlot, log).Handle,
		GetSlot:              getSlotHandler.NewHandler(a.Slots, log).Handle,
		UpdateSlot:           updateSlotHandler.NewHandler(a.Slots, log).Handle,
		CancelSlot:           cancelSlotHandler.NewHandler(a.Slots, log).Handle,
		GetSlotBookings:      getSlotBookingsHandler.NewHandler(a.Bookings, log).Handle,
		CreateRecurringSlots: createRecurringHandler.NewHandler(a.CreateRecurring, log).Handle,
		CheckConflicts:       checkConflictsHandler.NewHandler(a.CheckConflicts, log).Handle,

		GenerateSlots:          generateSlotsHandler.NewHandler(a.GenerateSlots, log).Handle,
		GetProviderSlots:       getProviderSlotsHandler.NewHandler(a.Slots, log).Handle,
		GetAvailableSlots:      getAvailableSlotsHandler.NewHandler(a.Slots, log).Handle,
		CheckAvailability:      checkAvailabilityHandler.NewHandler(a.Slots, log).Handle,
		GetAvailabilityStats:   getAvailabilityStatsHandler.NewHandler(a.Slots, log).Handle,
		GetProviderSchedule:    getProviderScheduleHandler.NewHandler(a.Schedules, log).Handle,
		UpdateProviderSchedule: updateProviderScheduleHandler.NewHandler(a.Schedules, log).Handle,

		CreateBooking:       createBookingHandler.NewHandler(a.BookSlot, log).Handle,
		GetBooking:          getBookingHandler.NewHandler(a.Bookings, log).Handle,
		UpdateBookingStatus: updateBookingStatusHandler.NewHandler(a.Bookings, log).Handle,
		CancelBooking:       cancelBookingHandler.NewHandler(a.Bookings, log).Handle,

		ListTimezones:      listTimezonesHandler.NewHandler(zones, log).Handle,
		SetCurrentTimezone: setCurrentTimezoneHandler.NewHandler(zones, log).Handle,
		ConvertTime:        convertTimeHandler.NewHandler(zones, log).Handle,
	}
}

// Router роутер со всеми маршрутами и middleware
func (a *App) Router(opts api.RouterOptions) http.Handler {
	if a.deps.Metrics != nil && opts.Metrics == nil {
		opts.Metrics = a.deps.Metrics
	}
	return api.NewRouter(a.Handlers(), a.deps.Logger, opts)
}
