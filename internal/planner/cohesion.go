package planner

import (
	"fmt"

	"crewplan/internal/domain"
)

// planCrew resolves a sameHotelForCrew run: the unit of decision is the
// pairing, not the member. Each member is filtered with their own resolved
// travel times, the accepted sets are intersected, and per-member scores are
// averaged per candidate so larger crews are not penalized. An empty
// intersection is a pairing-level reject, never a fallback to per-member
// selection.
func planCrew(in domain.PlanInput, env filterEnv, rec *Recorder, res *domain.PlanResult) {
	acceptedBy := make([]map[string]domain.HotelCandidate, len(in.Members))
	for mi, m := range in.Members {
		acceptedBy[mi] = make(map[string]domain.HotelCandidate, len(in.Hotels))
		for i := range in.Hotels {
			h := in.Hotels[i]
			recs, ok := m.Travel[h.ID]
			if !ok {
				recs = in.Travel[h.ID]
			}
			cand := buildCandidate(h, in.Rates, recs, in.Arrival)
			if runFilter(&cand, env, rec, m.ID) {
				acceptedBy[mi][h.ID] = cand
			}
		}
	}

	// Ordered intersection: input hotel order keeps the run deterministic.
	var common []domain.Hotel
	for _, h := range in.Hotels {
		inAll := true
		for mi := range in.Members {
			if _, ok := acceptedBy[mi][h.ID]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, h)
		}
	}

	memberIDs := make([]string, len(in.Members))
	for i, m := range in.Members {
		memberIDs[i] = m.ID
	}

	if len(common) == 0 {
		rec.Add(domain.DecisionRecord{
			Stage:   StageCohesion,
			Outcome: domain.OutcomeReject,
			Reasons: []string{"no common hotel"},
			Details: map[string]domain.Detail{"members": domain.Strs(memberIDs)},
		})
		return
	}

	// Price band per member over the common set: each member's price signal
	// stays relative to what that member actually survived with.
	bands := make([]priceBand, len(in.Members))
	for mi := range in.Members {
		cands := make([]domain.HotelCandidate, 0, len(common))
		for _, h := range common {
			cands = append(cands, acceptedBy[mi][h.ID])
		}
		bands[mi] = observedPriceBand(cands)
	}

	scored := make([]scoredCandidate, 0, len(common))
	for _, h := range common {
		memberScores := make([]float64, len(in.Members))
		var sum float64
		for mi := range in.Members {
			s, _, _ := scoreCandidate(acceptedBy[mi][h.ID], in.Constraints, bands[mi])
			memberScores[mi] = s
			sum += s
		}
		avg := sum / float64(len(in.Members))

		sc := avg
		rec.Add(domain.DecisionRecord{
			Stage:   StageScoring,
			HotelID: h.ID,
			Outcome: domain.OutcomeScore,
			Score:   &sc,
			Reasons: []string{fmt.Sprintf("average of %d member scores", len(in.Members))},
			Details: map[string]domain.Detail{
				"members":      domain.Strs(memberIDs),
				"memberScores": domain.Nums(memberScores),
			},
		})

		cand := buildCandidate(h, in.Rates, in.Travel[h.ID], in.Arrival)
		cand.Notes = append(cand.Notes, "score averaged across crew")
		scored = append(scored, scoredCandidate{cand: cand, score: avg})
	}

	finish(scored, res)
}
