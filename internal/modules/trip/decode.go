// README: Decoding of raw realtime-database trip entries into records, and back.
package trip

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"join/internal/modules/timeslot"
	"join/internal/types"
)

// Field names as stored under data/Trip/{id}.
const (
	FieldUserUID        = "userUID"
	FieldRideType       = "rideType"
	FieldDate           = "date"
	FieldPickup         = "pickup"
	FieldDropoff        = "dropoff"
	FieldTimePref       = "timePref"
	FieldTimeSlot       = "timeslot"
	FieldStatus         = "status"
	FieldTripFee        = "tripFee"
	FieldCurrency       = "currency"
	FieldVehicleClass   = "vehicleClass"
	FieldOriginLat      = "originLat"
	FieldOriginLng      = "originLng"
	FieldDestinationLat = "destinationLat"
	FieldDestinationLng = "destinationLng"
	FieldMatchedTripID  = "matchedTripId"
	FieldCreatedAt      = "createdAt"
	FieldUpdatedAt      = "updatedAt"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field value")
)

// ValidationError names the first field of a stored trip that failed decoding.
type ValidationError struct {
	TripID types.ID
	Field  string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("trip %s: %s: %v", e.TripID, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Owner returns the userUID and date of a raw entry without validating the rest.
func (r Raw) Owner() (types.ID, string) {
	uid, _ := r.Fields[FieldUserUID].(string)
	date, _ := r.Fields[FieldDate].(string)
	return types.ID(uid), date
}

// Decode validates a raw entry and converts it to a Record.
func Decode(r Raw) (Record, error) {
	fail := func(field string, err error) (Record, error) {
		return Record{}, &ValidationError{TripID: r.ID, Field: field, Err: err}
	}

	str := func(field string) (string, error) {
		v, ok := r.Fields[field]
		if !ok || v == nil {
			return "", ErrMissingField
		}
		s, ok := v.(string)
		if !ok {
			return "", ErrInvalidField
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", ErrMissingField
		}
		return s, nil
	}

	rec := Record{ID: r.ID}

	uid, err := str(FieldUserUID)
	if err != nil {
		return fail(FieldUserUID, err)
	}
	rec.UserID = types.ID(uid)

	if rec.Date, err = str(FieldDate); err != nil {
		return fail(FieldDate, err)
	}
	if !timeslot.ValidDate(rec.Date) {
		return fail(FieldDate, ErrInvalidField)
	}

	rideType, err := str(FieldRideType)
	if err != nil {
		return fail(FieldRideType, err)
	}
	rec.RideType = RideType(rideType)
	if !rec.RideType.Valid() {
		return fail(FieldRideType, ErrInvalidField)
	}

	if rec.Pickup, err = str(FieldPickup); err != nil {
		return fail(FieldPickup, err)
	}
	if rec.Dropoff, err = str(FieldDropoff); err != nil {
		return fail(FieldDropoff, err)
	}

	pref, err := str(FieldTimePref)
	if err != nil {
		return fail(FieldTimePref, err)
	}
	rec.TimePref = TimePref(pref)
	if !rec.TimePref.Valid() {
		return fail(FieldTimePref, ErrInvalidField)
	}

	if rec.TimeSlot, err = str(FieldTimeSlot); err != nil {
		return fail(FieldTimeSlot, err)
	}
	if !timeslot.IsValid(rec.TimeSlot) {
		return fail(FieldTimeSlot, ErrInvalidField)
	}

	status, err := str(FieldStatus)
	if err != nil {
		return fail(FieldStatus, err)
	}
	rec.Status = Status(status)
	if !rec.Status.Valid() {
		return fail(FieldStatus, ErrInvalidField)
	}

	// Optional fields; malformed values are ignored rather than rejected.
	if fee, ok := decimalField(r.Fields[FieldTripFee]); ok {
		rec.Fee.Amount = fee
	}
	rec.Fee.Currency, _ = r.Fields[FieldCurrency].(string)
	rec.VehicleClass, _ = r.Fields[FieldVehicleClass].(string)
	if m, ok := r.Fields[FieldMatchedTripID].(string); ok {
		rec.MatchedTripID = types.ID(m)
	}
	rec.Origin = pointField(r.Fields, FieldOriginLat, FieldOriginLng)
	rec.Destination = pointField(r.Fields, FieldDestinationLat, FieldDestinationLng)
	if ts, ok := r.Fields[FieldCreatedAt].(string); ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.CreatedAt = t
		}
	}

	return rec, nil
}

// Fields renders the record in its stored shape.
func (r Record) Fields() map[string]any {
	m := map[string]any{
		FieldUserUID:  string(r.UserID),
		FieldRideType: string(r.RideType),
		FieldDate:     r.Date,
		FieldPickup:   r.Pickup,
		FieldDropoff:  r.Dropoff,
		FieldTimePref: string(r.TimePref),
		FieldTimeSlot: r.TimeSlot,
		FieldStatus:   string(r.Status),
		FieldTripFee:  r.Fee.Amount.InexactFloat64(),
		FieldCurrency: r.Fee.Currency,
	}
	if r.VehicleClass != "" {
		m[FieldVehicleClass] = r.VehicleClass
	}
	if r.MatchedTripID != "" {
		m[FieldMatchedTripID] = string(r.MatchedTripID)
	}
	if r.Origin != nil {
		m[FieldOriginLat] = r.Origin.Lat
		m[FieldOriginLng] = r.Origin.Lng
	}
	if r.Destination != nil {
		m[FieldDestinationLat] = r.Destination.Lat
		m[FieldDestinationLng] = r.Destination.Lng
	}
	if !r.CreatedAt.IsZero() {
		m[FieldCreatedAt] = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return m
}

func decimalField(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	}
	return decimal.Zero, false
}

func floatField(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func pointField(m map[string]any, latKey, lngKey string) *types.Point {
	lat, ok1 := floatField(m[latKey])
	lng, ok2 := floatField(m[lngKey])
	if !ok1 || !ok2 {
		return nil
	}
	p := types.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return nil
	}
	return &p
}
