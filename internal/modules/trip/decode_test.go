package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() map[string]any {
	return map[string]any{
		FieldUserUID:  "u1",
		FieldRideType: "Request",
		FieldDate:     "2025-01-08",
		FieldPickup:   "123 Main St",
		FieldDropoff:  "Office",
		FieldTimePref: "Arrive between",
		FieldTimeSlot: "09:00 - 10:00",
		FieldStatus:   "Pending",
	}
}

func TestDecode_Valid(t *testing.T) {
	fields := validFields()
	fields[FieldTripFee] = 124.63
	fields[FieldCurrency] = "ZAR"
	fields[FieldOriginLat] = -26.2041
	fields[FieldOriginLng] = 28.0473
	fields[FieldMatchedTripID] = "t9"

	rec, err := Decode(Raw{ID: "t1", Fields: fields})
	require.NoError(t, err)

	assert.Equal(t, "t1", rec.ID.String())
	assert.Equal(t, RideRequest, rec.RideType)
	assert.Equal(t, ArriveBetween, rec.TimePref)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Equal(t, "124.63", rec.Fee.Amount.String())
	assert.Equal(t, "ZAR", rec.Fee.Currency)
	require.NotNil(t, rec.Origin)
	assert.InDelta(t, -26.2041, rec.Origin.Lat, 1e-9)
	assert.Nil(t, rec.Destination)
	assert.Equal(t, "t9", rec.MatchedTripID.String())
}

func TestDecode_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value any
		want  error
	}{
		{"missing ride type", FieldRideType, nil, ErrMissingField},
		{"unknown ride type", FieldRideType, "Hitchhike", ErrInvalidField},
		{"blank pickup", FieldPickup, "   ", ErrMissingField},
		{"numeric dropoff", FieldDropoff, 42.0, ErrInvalidField},
		{"unknown time pref", FieldTimePref, "Whenever", ErrInvalidField},
		{"slot outside catalog", FieldTimeSlot, "19:00 - 20:00", ErrInvalidField},
		{"unknown status", FieldStatus, "Lost", ErrInvalidField},
		{"malformed date", FieldDate, "08/01/2025", ErrInvalidField},
		{"missing user", FieldUserUID, nil, ErrMissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := validFields()
			if tc.value == nil {
				delete(fields, tc.field)
			} else {
				fields[tc.field] = tc.value
			}

			_, err := Decode(Raw{ID: "bad", Fields: fields})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, "bad", verr.TripID.String())
		})
	}
}

func TestDecode_NilFields(t *testing.T) {
	_, err := Decode(Raw{ID: "empty"})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestDecode_LenientOptionalFields(t *testing.T) {
	fields := validFields()
	fields[FieldTripFee] = "not money"
	fields[FieldOriginLat] = 120.0
	fields[FieldOriginLng] = 10.0
	fields[FieldCreatedAt] = "yesterday"

	rec, err := Decode(Raw{ID: "t2", Fields: fields})
	require.NoError(t, err)
	assert.True(t, rec.Fee.Amount.IsZero())
	assert.Nil(t, rec.Origin)
	assert.True(t, rec.CreatedAt.IsZero())
}

func TestRecordFields_RoundTrip(t *testing.T) {
	rec, err := Decode(Raw{ID: "t3", Fields: validFields()})
	require.NoError(t, err)

	again, err := Decode(Raw{ID: "t3", Fields: rec.Fields()})
	require.NoError(t, err)
	assert.Equal(t, rec.UserID, again.UserID)
	assert.Equal(t, rec.TimeSlot, again.TimeSlot)
	assert.Equal(t, rec.Status, again.Status)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		// no skipping or reversing
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusPending, false},
		// terminal
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
