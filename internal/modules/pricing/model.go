// README: Vehicle-class rate catalog and fare request/quote definitions.
package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"join/internal/types"
)

// VehicleClass is a fare-rate tier. Rates are fixed per class.
type VehicleClass struct {
	Name          string
	Title         string
	BaseFare      decimal.Decimal
	RatePerKm     decimal.Decimal
	RatePerMinute decimal.Decimal
	ImageName     string
}

const (
	ClassStandard = "standard"
	ClassSport    = "sport"
	ClassXL       = "xl"
)

var catalog = []VehicleClass{
	{
		Name:          ClassStandard,
		Title:         "Standard",
		BaseFare:      decimal.NewFromInt(30),
		RatePerKm:     decimal.NewFromInt(5),
		RatePerMinute: decimal.NewFromInt(1),
		ImageName:     "standard-car",
	},
	{
		Name:          ClassSport,
		Title:         "Sport",
		BaseFare:      decimal.NewFromInt(35),
		RatePerKm:     decimal.NewFromInt(7),
		RatePerMinute: decimal.RequireFromString("1.5"),
		ImageName:     "sport-car",
	},
	{
		Name:          ClassXL,
		Title:         "XL",
		BaseFare:      decimal.NewFromInt(40),
		RatePerKm:     decimal.NewFromInt(8),
		RatePerMinute: decimal.NewFromInt(2),
		ImageName:     "xl-van",
	},
}

// Catalog returns a copy of the vehicle classes in display order.
func Catalog() []VehicleClass {
	out := make([]VehicleClass, len(catalog))
	copy(out, catalog)
	return out
}

// LookupClass finds a class by name, case-insensitively.
func LookupClass(name string) (VehicleClass, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range catalog {
		if c.Name == name {
			return c, true
		}
	}
	return VehicleClass{}, false
}

// Policy carries the configured markup, floor and currency.
type Policy struct {
	ServiceFee decimal.Decimal
	Minimum    decimal.Decimal
	Currency   string
}

func DefaultPolicy() Policy {
	return Policy{
		ServiceFee: decimal.RequireFromString("0.20"),
		Minimum:    decimal.NewFromInt(50),
		Currency:   "ZAR",
	}
}

type EstimateRequest struct {
	Origin      types.Point
	Destination types.Point
	Class       VehicleClass
	DurationMin float64
	Passengers  int
}

type QuoteRequest struct {
	Origin      types.Point
	Destination types.Point
	// DurationMin is looked up from the route service when nil.
	DurationMin *float64
	Passengers  int
}

type QuoteOption struct {
	Class VehicleClass
	Fee   types.Money
}

type Quote struct {
	ID          types.ID
	Origin      types.Point
	Destination types.Point
	DistanceKm  float64
	DurationMin float64
	Passengers  int
	Options     []QuoteOption
	ExpiresAt   time.Time
}

// Option returns the quoted fee for a class.
func (q Quote) Option(class string) (QuoteOption, bool) {
	class = strings.ToLower(class)
	for _, o := range q.Options {
		if o.Class.Name == class {
			return o, true
		}
	}
	return QuoteOption{}, false
}
