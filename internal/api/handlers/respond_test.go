package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		handled    bool
		wantStatus int
	}{
		{
			name:       "validation",
			err:        &domain.ValidationError{Failures: []domain.ValidationFailure{{Field: "date", Required: true, ErrorMessage: "date is required"}}},
			handled:    true,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "conflicts",
			err:        &domain.ConflictError{Conflicts: []domain.SlotConflict{{Type: domain.ConflictOverlap, Message: "overlap"}}},
			handled:    true,
			wantStatus: http.StatusConflict,
		},
		{
			name:    "other",
			err:     errors.New("boom"),
			handled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			handled := RespondDomainError(rec, tt.err)

			assert.Equal(t, tt.handled, handled)
			if !tt.handled {
				assert.Zero(t, rec.Body.Len())
				return
			}
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, len(body.ValidationErrors)+len(body.Conflicts), 1)
		})
	}
}

func TestDecodeOptionalJSON_EmptyBody(t *testing.T) {
	var v struct {
		Reason string `json:"reason"`
	}

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(""))
	require.NoError(t, DecodeOptionalJSON(req, &v))
	assert.Empty(t, v.Reason)

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"reason":"sick"}`))
	require.NoError(t, DecodeOptionalJSON(req, &v))
	assert.Equal(t, "sick", v.Reason)

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeOptionalJSON(req, &v))
}

func TestPathUUID(t *testing.T) {
	id := uuid.New()

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"slotId": id.String()})
	got, err := PathUUID(req, "slotId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = PathUUID(req, "bookingId")
	assert.Error(t, err)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"slotId": "nope"})
	_, err = PathUUID(req, "slotId")
	assert.Error(t, err)
}
