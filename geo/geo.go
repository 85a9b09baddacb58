// Package geo provides the single-shot position gate used before a loyalty
// claim, and the distance check the claim endpoint enforces server-side.
package geo

import (
	"context"
	"errors"
	"math"
)

// ErrUnsupported is returned when the host device has no positioning
// capability at all, as opposed to a denied or failed position request.
var ErrUnsupported = errors.New("geolocation is not supported on this device")

type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Provider resolves the device position once, in high-accuracy mode.
// Provider errors propagate to the caller unchanged; retry and backoff, if
// any, are the caller's responsibility.
type Provider interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Position, error)

func (f ProviderFunc) CurrentPosition(ctx context.Context) (Position, error) {
	return f(ctx)
}

// Unsupported returns a Provider for hosts without positioning hardware.
func Unsupported() Provider {
	return ProviderFunc(func(context.Context) (Position, error) {
		return Position{}, ErrUnsupported
	})
}

const earthRadiusM = 6371000.0

// Distance returns the great-circle distance between two positions in
// meters, by the haversine formula.
func Distance(a, b Position) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
