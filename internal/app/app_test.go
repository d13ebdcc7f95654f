package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/api"
	"github.com/m04kA/SMC-AvailabilityService/internal/app"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	"github.com/m04kA/SMC-AvailabilityService/internal/timezone"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	application := app.New(app.Dependencies{
		Storage:    app.NewMemoryStorage(),
		Locker:     locker.NewLocalLocker(time.Second, nil),
		Zones:      timezone.NewResolver("UTC"),
		Scheduling: config.Default().Scheduling,
		Logger:     logger.NewNop(),
	})

	return &testServer{t: t, handler: application.Router(api.RouterOptions{})}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format(domain.DateFormat)
}

func slotBody(providerID uuid.UUID, date, start, end string) map[string]interface{} {
	return map[string]interface{}{
		"provider_id":      providerID.String(),
		"date":             date,
		"start_time":       start,
		"end_time":         end,
		"appointment_type": "consultation",
		"slot_duration":    30,
		"break_duration":   10,
		"max_appointments": 1,
	}
}

func bookingBody(slotID string) map[string]interface{} {
	return map[string]interface{}{
		"slot_id":       slotID,
		"patient_id":    uuid.New().String(),
		"patient_name":  "Jane Doe",
		"patient_email": "jane@example.com",
		"reason":        "Routine check-up",
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSlotAndBookingLifecycle(t *testing.T) {
	s := newTestServer(t)
	providerID := uuid.New()
	date := futureDate()

	// Создание слота
	rec := s.do(http.MethodPost, "/api/v1/slots", slotBody(providerID, date, "10:00", "10:30"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	slot := decode(t, rec)
	slotID := slot["id"].(string)
	assert.Equal(t, "available", slot["status"])
	assert.Equal(t, "UTC", slot["timezone"])

	// Пересечение с существующим слотом
	rec = s.do(http.MethodPost, "/api/v1/slots", slotBody(providerID, date, "10:15", "10:45"))
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	conflicts := decode(t, rec)["conflicts"].([]interface{})
	require.NotEmpty(t, conflicts)
	assert.Equal(t, "overlap", conflicts[0].(map[string]interface{})["type"])

	// Бронирование
	rec = s.do(http.MethodPost, "/api/v1/bookings", bookingBody(slotID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	booking := created["booking"].(map[string]interface{})
	bookingID := booking["id"].(string)
	assert.Equal(t, "pending", booking["status"])
	assert.Regexp(t, `^BK\d+[0-9A-F-]{8}$`, booking["confirmation_code"])
	assert.Equal(t, "booked", created["slot"].(map[string]interface{})["status"])

	// Слот заполнен
	rec = s.do(http.MethodPost, "/api/v1/bookings", bookingBody(slotID))
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/slots/"+slotID+"/bookings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["total"])

	// Отмена бронирования освобождает слот
	rec = s.do(http.MethodPut, "/api/v1/bookings/"+bookingID+"/cancel", map[string]string{"reason": "patient request"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", decode(t, rec)["status"])

	rec = s.do(http.MethodPut, "/api/v1/bookings/"+bookingID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/slots/"+slotID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reopened := decode(t, rec)
	assert.Equal(t, "available", reopened["status"])
	assert.EqualValues(t, 0, reopened["current_bookings"])

	// Слот с бронированием отменяется без удаления
	rec = s.do(http.MethodPost, "/api/v1/bookings", bookingBody(slotID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodDelete, "/api/v1/slots/"+slotID, map[string]string{"reason": "provider sick"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cancelled := decode(t, rec)
	assert.Equal(t, false, cancelled["deleted"])
	assert.Equal(t, "cancelled", cancelled["slot"].(map[string]interface{})["status"])

	rec = s.do(http.MethodPost, "/api/v1/bookings", bookingBody(slotID))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelSlot_WithoutBookingsDeletes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/slots", slotBody(uuid.New(), futureDate(), "14:00", "14:30"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	slotID := decode(t, rec)["id"].(string)

	rec = s.do(http.MethodDelete, "/api/v1/slots/"+slotID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["deleted"])

	rec = s.do(http.MethodGet, "/api/v1/slots/"+slotID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelSlot_WithCancelledBookingsKeepsHistory(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/slots", slotBody(uuid.New(), futureDate(), "15:00", "15:30"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	slotID := decode(t, rec)["id"].(string)

	rec = s.do(http.MethodPost, "/api/v1/bookings", bookingBody(slotID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bookingID := decode(t, rec)["booking"].(map[string]interface{})["id"].(string)

	rec = s.do(http.MethodPut, "/api/v1/bookings/"+bookingID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodDelete, "/api/v1/slots/"+slotID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode(t, rec)
	assert.Equal(t, false, resp["deleted"])
	assert.Equal(t, "cancelled", resp["slot"].(map[string]interface{})["status"])

	rec = s.do(http.MethodGet, "/api/v1/slots/"+slotID+"/bookings", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decode(t, rec)["total"])
}

func TestCreateSlot_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	body := slotBody(uuid.New(), "15-10-2025", "25:00", "10:00")
	body["slot_duration"] = 500

	rec := s.do(http.MethodPost, "/api/v1/slots", body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	failures := decode(t, rec)["validation_errors"].([]interface{})

	fields := make([]string, 0, len(failures))
	for _, f := range failures {
		fields = append(fields, f.(map[string]interface{})["field"].(string))
	}
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "start_time")
	assert.Contains(t, fields, "slot_duration")
}

func TestNotFoundAndBadIDs(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"unknown slot", http.MethodGet, "/api/v1/slots/" + uuid.NewString(), http.StatusNotFound},
		{"malformed slot id", http.MethodGet, "/api/v1/slots/not-a-uuid", http.StatusBadRequest},
		{"unknown booking", http.MethodGet, "/api/v1/bookings/" + uuid.NewString(), http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCheckConflicts_ReturnsOK(t *testing.T) {
	s := newTestServer(t)
	providerID := uuid.New()
	date := futureDate()

	rec := s.do(http.MethodPost, "/api/v1/slots", slotBody(providerID, date, "09:00", "09:30"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/slots/check-conflicts", slotBody(providerID, date, "09:15", "09:45"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode(t, rec)["conflicts"])
}

func TestTimezones(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/timezones", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)
	assert.Equal(t, "UTC", list["current"])
	assert.NotEmpty(t, list["timezones"])

	rec = s.do(http.MethodPut, "/api/v1/timezones/current", map[string]string{"timezone": "Europe/London"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Europe/London", decode(t, rec)["timezone"])

	rec = s.do(http.MethodPut, "/api/v1/timezones/current", map[string]string{"timezone": "Mars/Olympus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/timezones/convert", map[string]string{
		"time":          "09:00",
		"from_timezone": "America/New_York",
		"to_timezone":   "Europe/London",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "14:00", decode(t, rec)["time"])
}

func TestAppointmentTypes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/appointment-types", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var types []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &types))
	assert.Len(t, types, len(domain.AppointmentTypes))
}
