// Package geocode resolves free-text addresses through the French national
// address search API (api-adresse.data.gouv.fr).
package geocode

import (
	"context"
	"errors"
)

//go:generate mockgen -source=geocode.go -destination=mocks/mocks.go -package=mocks Client

// ErrUnavailable is returned when the upstream search cannot be reached or
// answers with an unusable payload.
var ErrUnavailable = errors.New("geocoder unavailable")

// ErrNoMatch is returned by Resolve when the search has no usable feature.
var ErrNoMatch = errors.New("no address matched")

// Client searches addresses. A limit of zero leaves the number of results to
// the upstream default.
type Client interface {
	Search(ctx context.Context, query string, limit int) (*FeatureCollection, error)
}

// FeatureCollection is the GeoJSON document returned by the search endpoint.
type FeatureCollection struct {
	Type        string    `json:"type"`
	Version     string    `json:"version"`
	Features    []Feature `json:"features"`
	Attribution string    `json:"attribution"`
	Licence     string    `json:"licence"`
	Query       string    `json:"query"`
	Limit       int       `json:"limit"`
}

type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry holds a point as [longitude, latitude].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type Properties struct {
	Label       string  `json:"label"`
	Score       float64 `json:"score"`
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Postcode    string  `json:"postcode"`
	Citycode    string  `json:"citycode"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	City        string  `json:"city"`
	Context     string  `json:"context"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
	BanID       *string `json:"banId"`
	OldCitycode *string `json:"oldcitycode"`
	OldCity     *string `json:"oldcity"`
}

// Coordinates returns the latitude and longitude of the best match.
func (fc *FeatureCollection) Coordinates() (lat, lon float64, ok bool) {
	if fc == nil || len(fc.Features) == 0 {
		return 0, 0, false
	}
	coords := fc.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return 0, 0, false
	}
	return coords[1], coords[0], true
}

// Resolve geocodes address and returns the coordinates of the best match.
func Resolve(ctx context.Context, client Client, address string) (lat, lon float64, err error) {
	fc, err := client.Search(ctx, address, 1)
	if err != nil {
		return 0, 0, err
	}
	lat, lon, ok := fc.Coordinates()
	if !ok {
		return 0, 0, ErrNoMatch
	}
	return lat, lon, nil
}
