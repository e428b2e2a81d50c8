package domain

import (
	"fmt"
	"time"
)

// Constraints configure one planning run. Every field is optional; a nil
// pointer or empty slice imposes no restriction.
type Constraints struct {
	MaxCommuteMinutes *int     `json:"maxCommuteMinutes,omitempty"`
	MinHotelRating    *float64 `json:"minHotelRating,omitempty"`
	MinReviews        *int     `json:"minReviews,omitempty"`
	MaxNightlyUSD     *float64 `json:"maxNightlyUsd,omitempty"`
	PreferredBrands   []string `json:"preferredBrands,omitempty"`
	BlacklistHotels   []string `json:"blacklistHotels,omitempty"`
	MinRestHours      *float64 `json:"minRestHours,omitempty"`
	SameHotelForCrew  bool     `json:"sameHotelForCrew,omitempty"`
	SafetyFlags       []string `json:"safetyFlags,omitempty"`
	AllowCurfew       bool     `json:"allowCurfew,omitempty"`
}

// Validate rejects malformed constraint values before a run starts. The
// engine never attempts partial repair of bad configuration.
func (c Constraints) Validate() error {
	if c.MaxCommuteMinutes != nil && *c.MaxCommuteMinutes < 0 {
		return fmt.Errorf("%w: maxCommuteMinutes %d", ErrInvalidConstraints, *c.MaxCommuteMinutes)
	}
	if c.MinHotelRating != nil && (*c.MinHotelRating < 0 || *c.MinHotelRating > 5) {
		return fmt.Errorf("%w: minHotelRating %g outside 0-5", ErrInvalidConstraints, *c.MinHotelRating)
	}
	if c.MinReviews != nil && *c.MinReviews < 0 {
		return fmt.Errorf("%w: minReviews %d", ErrInvalidConstraints, *c.MinReviews)
	}
	if c.MaxNightlyUSD != nil && *c.MaxNightlyUSD < 0 {
		return fmt.Errorf("%w: maxNightlyUsd %g", ErrInvalidConstraints, *c.MaxNightlyUSD)
	}
	if c.MinRestHours != nil && *c.MinRestHours < 0 {
		return fmt.Errorf("%w: minRestHours %g", ErrInvalidConstraints, *c.MinRestHours)
	}
	return nil
}

// Blacklisted reports whether the hotel id is excluded outright.
func (c Constraints) Blacklisted(hotelID string) bool {
	for _, id := range c.BlacklistHotels {
		if id == hotelID {
			return true
		}
	}
	return false
}

// PreferredBrand reports whether brand is on the preference list.
func (c Constraints) PreferredBrand(brand string) bool {
	for _, b := range c.PreferredBrands {
		if b == brand {
			return true
		}
	}
	return false
}

type Outcome string

const (
	OutcomeAccept Outcome = "accept"
	OutcomeReject Outcome = "reject"
	OutcomeScore  Outcome = "score"
)

// DecisionRecord is one append-only entry in a run's audit trail. Order is
// evaluation order and is never re-sorted or truncated.
type DecisionRecord struct {
	Stage   string            `json:"stage"`
	HotelID string            `json:"hotelId,omitempty"` // empty for pairing-level records
	Outcome Outcome           `json:"outcome"`
	Score   *float64          `json:"score,omitempty"`
	Reasons []string          `json:"reasons"`
	Details map[string]Detail `json:"details,omitempty"`
}

// PlanResult is the full outcome of one planning run. Candidates holds only
// hotels that reached scoring; everything rejected earlier is visible
// through Audit alone. Chosen, when present, is an element of Candidates.
type PlanResult struct {
	City       string           `json:"city"`
	ArrAirport string           `json:"arrAirport"`
	Candidates []HotelCandidate `json:"candidates"`
	Chosen     *HotelCandidate  `json:"chosen,omitempty"`
	Audit      []DecisionRecord `json:"audit"`
}

// CrewMember carries per-member travel-time overrides for cohesion runs.
// A member without an override for a hotel falls back to the shared records.
type CrewMember struct {
	ID     string                  `json:"id"`
	Travel map[string][]TravelTime `json:"travel,omitempty"`
}

// PlanInput is the engine's entire view of the world for one run. The engine
// never mutates it.
type PlanInput struct {
	City         string
	ArrAirport   string
	Arrival      time.Time
	LayoverHours *float64
	Hotels       []Hotel
	Rates        map[string]HotelRate
	Travel       map[string][]TravelTime
	Members      []CrewMember
	Profile      CityProfile
	Constraints  Constraints
}
