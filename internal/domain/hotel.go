package domain

import "time"

// Airport is immutable reference data keyed by IATA code.
type Airport struct {
	IATA     string  `json:"iata"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Timezone string  `json:"timezone"`
}

// Hotel is catalogue reference data. Rating/Reviews/Brand are pointers:
// absent means unknown, never zero.
type Hotel struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Address   *string  `json:"address,omitempty"`
	Brand     *string  `json:"brand,omitempty"`
	Rating    *float64 `json:"rating,omitempty"` // 0-5
	Reviews   *int     `json:"reviews,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
	Zones     []string `json:"zones,omitempty"` // risk/zone tags for safety filtering
}

// HotelRate is the active nightly rate for one planning run.
type HotelRate struct {
	HotelID      string   `json:"hotelId"`
	NightlyUSD   float64  `json:"nightlyUsd"`
	TaxesFeesUSD *float64 `json:"taxesFeesUsd,omitempty"`
}

// TotalUSD is the nightly rate plus taxes/fees when known.
func (r HotelRate) TotalUSD() float64 {
	t := r.NightlyUSD
	if r.TaxesFeesUSD != nil {
		t += *r.TaxesFeesUSD
	}
	return t
}

type TravelMode string

const (
	ModeDrive   TravelMode = "drive"
	ModeTransit TravelMode = "transit"
	ModeShuttle TravelMode = "shuttle"
)

// TravelTime is a time-of-day sensitive airport->hotel measurement. A record
// only applies to arrivals inside its validity window.
type TravelTime struct {
	HotelID    string     `json:"hotelId"`
	Mode       TravelMode `json:"mode"`
	Minutes    int        `json:"minutes"`
	DistanceKm float64    `json:"distanceKm"`
	ValidFrom  time.Time  `json:"validFrom"`
	ValidTo    time.Time  `json:"validTo"`
}

// Covers reports whether the record's validity window contains at.
func (t TravelTime) Covers(at time.Time) bool {
	return !at.Before(t.ValidFrom) && at.Before(t.ValidTo)
}

// HotelCandidate is a planning-time projection of Hotel + resolved rate and
// travel data. Built fresh per run, never persisted.
type HotelCandidate struct {
	Hotel      Hotel       `json:"hotel"`
	Rate       *HotelRate  `json:"rate,omitempty"`
	Travel     *TravelTime `json:"travel,omitempty"`
	DistanceKm *float64    `json:"distanceKm,omitempty"`
	ETAMinutes *int        `json:"etaMinutes,omitempty"`
	Notes      []string    `json:"notes,omitempty"`
}

// CityProfile informs safety filtering for one arrival city.
type CityProfile struct {
	City       string   `json:"city"`
	ArrAirport string   `json:"arrAirport"`
	RiskTags   []string `json:"riskTags,omitempty"`
	Curfew     bool     `json:"curfew"`
}
