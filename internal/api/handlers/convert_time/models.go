package convert_time

// ConvertTimeRequest HTTP request model. Без даты время переводится по модулю суток.
type ConvertTimeRequest struct {
	Date         string `json:"date,omitempty"` // "2025-10-15"
	Time         string `json:"time"`           // "10:00"
	FromTimezone string `json:"from_timezone"`
	ToTimezone   string `json:"to_timezone"`
}

// ConvertTimeResponse время в целевом поясе
type ConvertTimeResponse struct {
	Date         string `json:"date,omitempty"`
	Time         string `json:"time"`
	FromTimezone string `json:"from_timezone"`
	ToTimezone   string `json:"to_timezone"`
}
