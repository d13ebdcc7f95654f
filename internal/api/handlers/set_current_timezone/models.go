package set_current_timezone

// SetCurrentTimezoneRequest HTTP request model
type SetCurrentTimezoneRequest struct {
	Timezone string `json:"timezone"`
}

// CurrentTimezoneResponse текущий пояс после изменения
type CurrentTimezoneResponse struct {
	Timezone string `json:"timezone"`
}
