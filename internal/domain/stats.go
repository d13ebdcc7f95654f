package domain

// AvailabilityStats статистика доступности провайдера
type AvailabilityStats struct {
	TotalSlots         int
	AvailableSlots     int
	BookedSlots        int
	CancelledSlots     int
	ExpiredSlots       int
	UpcomingBookings   int
	TodayBookings      int
	RevenueThisMonth   float64
	AverageBookingRate float64
}
