package planner

import (
	"fmt"
	"sort"
	"time"

	"crewplan/internal/domain"
	"crewplan/internal/spatial"
)

// Plan runs Filter -> Score -> (optional) Cohesion over the input and
// returns the ranked candidates, the chosen hotel, and the full audit trail.
// It is a pure function of its input: no I/O, no clock, no randomness, and
// it never mutates any input record. "No viable candidate" is a normal
// result with Chosen absent, not an error.
func Plan(in domain.PlanInput) (domain.PlanResult, error) {
	if err := in.Constraints.Validate(); err != nil {
		return domain.PlanResult{}, err
	}

	rec := &Recorder{}
	env := filterEnv{cs: in.Constraints, profile: in.Profile, layoverHours: in.LayoverHours}
	res := domain.PlanResult{
		City:       in.City,
		ArrAirport: in.ArrAirport,
		Candidates: []domain.HotelCandidate{},
	}

	if in.Constraints.SameHotelForCrew && len(in.Members) > 0 {
		planCrew(in, env, rec, &res)
	} else {
		planSingle(in, env, rec, &res)
	}

	res.Audit = rec.Records()
	return res, nil
}

type scoredCandidate struct {
	cand  domain.HotelCandidate
	score float64
}

func planSingle(in domain.PlanInput, env filterEnv, rec *Recorder, res *domain.PlanResult) {
	var accepted []domain.HotelCandidate
	for i := range in.Hotels {
		cand := buildCandidate(in.Hotels[i], in.Rates, in.Travel[in.Hotels[i].ID], in.Arrival)
		if runFilter(&cand, env, rec, "") {
			accepted = append(accepted, cand)
		}
	}

	band := observedPriceBand(accepted)
	scored := make([]scoredCandidate, 0, len(accepted))
	for _, c := range accepted {
		s, reasons, details := scoreCandidate(c, in.Constraints, band)
		sc := s
		rec.Add(domain.DecisionRecord{
			Stage:   StageScoring,
			HotelID: c.Hotel.ID,
			Outcome: domain.OutcomeScore,
			Score:   &sc,
			Reasons: reasons,
			Details: details,
		})
		scored = append(scored, scoredCandidate{cand: c, score: s})
	}

	finish(scored, res)
}

// buildCandidate joins one hotel with its resolved rate and the travel-time
// record governing the arrival window. Inputs are copied, never aliased.
func buildCandidate(h domain.Hotel, rates map[string]domain.HotelRate, recs []domain.TravelTime, arrival time.Time) domain.HotelCandidate {
	c := domain.HotelCandidate{Hotel: h}
	if r, ok := rates[h.ID]; ok {
		rr := r
		c.Rate = &rr
	}
	if tt := spatial.BestTravelTime(recs, arrival); tt != nil {
		c.Travel = tt
		m := tt.Minutes
		c.ETAMinutes = &m
		d := tt.DistanceKm
		c.DistanceKm = &d
	} else if len(recs) > 0 {
		c.Notes = append(c.Notes, fmt.Sprintf("no travel-time record covers arrival %s", arrival.Format(time.RFC3339)))
	}
	return c
}

// finish ranks the scored set (score descending, hotel id ascending for
// deterministic ties) and selects the top candidate.
func finish(scored []scoredCandidate, res *domain.PlanResult) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].cand.Hotel.ID < scored[j].cand.Hotel.ID
	})
	for _, s := range scored {
		res.Candidates = append(res.Candidates, s.cand)
	}
	if len(res.Candidates) > 0 {
		chosen := res.Candidates[0]
		res.Chosen = &chosen
	}
}
