package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"crewplan/internal/adapters/observability"
	"crewplan/internal/domain"
	"crewplan/internal/planner"
	"crewplan/internal/spatial"
)

// PlanService joins catalogue, rate, and travel-time data into a PlanInput
// and runs the engine. All I/O lives here; the engine itself stays pure.
type PlanService struct {
	repo     domain.CatalogueRepository
	transit  domain.TravelTimeClient
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewPlanService(r domain.CatalogueRepository, t domain.TravelTimeClient, c domain.Cache, ttl time.Duration) *PlanService {
	return &PlanService{repo: r, transit: t, cache: c, cacheTTL: ttl}
}

type PlanRequest struct {
	City         string              `json:"city"`
	ArrAirport   string              `json:"arrAirport"`
	Arrival      time.Time           `json:"arrival"`
	LayoverHours *float64            `json:"layoverHours,omitempty"`
	Members      []domain.CrewMember `json:"members,omitempty"`
	Constraints  domain.Constraints  `json:"constraints"`
}

func (s *PlanService) Plan(ctx context.Context, req PlanRequest) (domain.PlanResult, error) {
	if err := req.Constraints.Validate(); err != nil {
		return domain.PlanResult{}, err
	}

	origin, err := s.repo.GetAirport(ctx, req.ArrAirport)
	if err != nil {
		return domain.PlanResult{}, fmt.Errorf("airport %s: %w", req.ArrAirport, err)
	}
	hotels, err := s.repo.ListHotelsByCity(ctx, req.City)
	if err != nil {
		return domain.PlanResult{}, fmt.Errorf("list hotels for %s: %w", req.City, err)
	}

	ids := make([]string, len(hotels))
	for i, h := range hotels {
		ids[i] = h.ID
	}
	rates, err := s.repo.GetRates(ctx, ids)
	if err != nil {
		return domain.PlanResult{}, fmt.Errorf("rates: %w", err)
	}

	travel := make(map[string][]domain.TravelTime, len(hotels))
	for _, h := range hotels {
		travel[h.ID] = s.travelTimes(ctx, origin, h, req.Arrival)
	}

	in := domain.PlanInput{
		City:         req.City,
		ArrAirport:   req.ArrAirport,
		Arrival:      req.Arrival,
		LayoverHours: req.LayoverHours,
		Hotels:       hotels,
		Rates:        rates,
		Travel:       travel,
		Members:      req.Members,
		Profile:      s.cityProfile(ctx, req.City, req.ArrAirport),
		Constraints:  req.Constraints,
	}

	start := time.Now()
	out, err := planner.Plan(in)
	if err != nil {
		return domain.PlanResult{}, err
	}

	outcome := "none"
	if out.Chosen != nil {
		outcome = "chosen"
	}
	observability.ObservePlan(outcome, time.Since(start))
	for _, r := range out.Audit {
		if r.Outcome == domain.OutcomeReject {
			observability.ObserveStageReject(r.Stage)
		}
	}
	log.Info().
		Str("city", req.City).
		Str("airport", req.ArrAirport).
		Int("hotels", len(hotels)).
		Int("candidates", len(out.Candidates)).
		Str("outcome", outcome).
		Msg("plan run complete")
	return out, nil
}

// cityProfile is cache-aside over the repo. A missing profile is a data gap,
// not a failure: the run continues with an empty profile and the gap is
// recorded for the catalogue team.
func (s *PlanService) cityProfile(ctx context.Context, city, arrAirport string) domain.CityProfile {
	key := "cityprofile:" + city
	var p domain.CityProfile
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &p); ok {
			return p
		}
	}
	p, err := s.repo.GetCityProfile(ctx, city)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.repo.LogGap(ctx, "", "city-profile:"+city)
		} else {
			log.Warn().Err(err).Str("city", city).Msg("city profile lookup failed")
		}
		return domain.CityProfile{City: city, ArrAirport: arrAirport}
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	}
	return p
}

// travelTimes resolves the airport->hotel records for the arrival window:
// cache, then catalogue, then the matrix provider, then a distance-derived
// estimate. Provider results are persisted so later runs hit the catalogue.
func (s *PlanService) travelTimes(ctx context.Context, origin domain.Airport, h domain.Hotel, arrival time.Time) []domain.TravelTime {
	key := fmt.Sprintf("tt:%s:%s:%02d", origin.IATA, h.ID, arrival.UTC().Hour())
	var recs []domain.TravelTime
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &recs); ok {
			return recs
		}
	}

	recs, err := s.repo.ListTravelTimes(ctx, h.ID, arrival)
	if err == nil && len(recs) > 0 {
		s.cacheTravel(ctx, key, recs)
		return recs
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Warn().Err(err).Str("hotel", h.ID).Msg("travel-time read failed")
	}

	if s.transit != nil {
		recs, err = s.transit.Matrix(ctx, origin, h, arrival)
		if err == nil && len(recs) > 0 {
			if uerr := s.repo.UpsertTravelTimes(ctx, recs); uerr != nil {
				log.Warn().Err(uerr).Str("hotel", h.ID).Msg("travel-time persist failed")
			}
			s.cacheTravel(ctx, key, recs)
			return recs
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Str("hotel", h.ID).Msg("matrix provider failed")
		}
	}

	// Last resort: straight-line estimate. The gap is logged so the
	// catalogue can be backfilled; the run stays alive.
	_ = s.repo.LogGap(ctx, h.ID, "travel-time")
	km := spatial.DistanceKm(origin.Lat, origin.Lon, h.Lat, h.Lon)
	est := domain.TravelTime{
		HotelID:    h.ID,
		Mode:       domain.ModeDrive,
		Minutes:    spatial.EstimateMinutes(km, domain.ModeDrive),
		DistanceKm: km,
		ValidFrom:  arrival.Add(-3 * time.Hour),
		ValidTo:    arrival.Add(3 * time.Hour),
	}
	recs = []domain.TravelTime{est}
	s.cacheTravel(ctx, key, recs)
	return recs
}

func (s *PlanService) cacheTravel(ctx context.Context, key string, recs []domain.TravelTime) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, recs, int(s.cacheTTL.Seconds()))
}
