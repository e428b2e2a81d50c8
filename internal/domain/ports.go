package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidConstraints = errors.New("invalid constraints")
)

// CatalogueRepository owns the reference data the planner joins per run.
type CatalogueRepository interface {
	// Write paths (loader)
	UpsertAirport(ctx context.Context, a Airport) error
	UpsertHotel(ctx context.Context, h Hotel, city string) error
	UpsertRate(ctx context.Context, r HotelRate) error
	UpsertTravelTimes(ctx context.Context, ts []TravelTime) error
	UpsertCityProfile(ctx context.Context, p CityProfile) error
	LogGap(ctx context.Context, hotelID, kind string) error

	// Read paths
	GetAirport(ctx context.Context, iata string) (Airport, error)
	ListHotelsByCity(ctx context.Context, city string) ([]Hotel, error)
	GetRates(ctx context.Context, hotelIDs []string) (map[string]HotelRate, error)
	ListTravelTimes(ctx context.Context, hotelID string, at time.Time) ([]TravelTime, error)
	GetCityProfile(ctx context.Context, city string) (CityProfile, error)
}

// TravelTimeClient is the external matrix provider: airport->hotel travel
// times for a given arrival instant.
type TravelTimeClient interface {
	Matrix(ctx context.Context, origin Airport, hotel Hotel, arrival time.Time) ([]TravelTime, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
