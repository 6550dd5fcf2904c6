package geo

import (
	"context"

	"github.com/shopspring/decimal"
)

// Point is a geographic coordinate pair in the internal lat/lng convention.
// Decimals keep the provider's exact text representation so re-writing the
// same place never produces a different stored value.
type Point struct {
	Lat decimal.Decimal
	Lng decimal.Decimal
}

// Geocoder resolves a free-text address to a coordinate pair. A (nil, nil)
// return means the address did not resolve, a normal outcome distinct from
// a provider error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Point, error)
}
