package planner

import (
	"fmt"

	"crewplan/internal/domain"
)

// Scoring weights. Tunable constants, clamped into [0, MaxScore] overall.
const (
	WeightCommute = 0.35
	WeightRating  = 0.30
	WeightPrice   = 0.25
	BrandBonus    = 10.0 // flat points when the brand is preferred

	// DefaultCommuteCapMinutes bounds the commute falloff when no ceiling
	// is configured.
	DefaultCommuteCapMinutes = 120

	MaxScore = 100.0
)

// priceBand is the observed nightly-total range of the surviving candidate
// set. Price competitiveness is relative to what is actually available, not
// an absolute scale.
type priceBand struct {
	lo, hi float64
	ok     bool
}

func observedPriceBand(cands []domain.HotelCandidate) priceBand {
	var b priceBand
	for _, c := range cands {
		if c.Rate == nil {
			continue
		}
		t := c.Rate.TotalUSD()
		if !b.ok {
			b = priceBand{lo: t, hi: t, ok: true}
			continue
		}
		if t < b.lo {
			b.lo = t
		}
		if t > b.hi {
			b.hi = t
		}
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// scoreCandidate computes the bounded desirability score for one accepted
// candidate, with the reasons and details that go on its scoring record.
func scoreCandidate(c domain.HotelCandidate, cs domain.Constraints, band priceBand) (float64, []string, map[string]domain.Detail) {
	var reasons []string
	details := map[string]domain.Detail{}

	// Commute: linear falloff to zero at the ceiling (or the default cap).
	commuteCap := DefaultCommuteCapMinutes
	if cs.MaxCommuteMinutes != nil {
		commuteCap = *cs.MaxCommuteMinutes
	}
	var commuteN float64
	if c.ETAMinutes != nil && commuteCap > 0 {
		commuteN = clamp01(1 - float64(*c.ETAMinutes)/float64(commuteCap))
		reasons = append(reasons, fmt.Sprintf("commute %d min of %d min cap", *c.ETAMinutes, commuteCap))
	} else {
		reasons = append(reasons, "commute unknown, no commute credit")
	}
	details["commuteComponent"] = domain.Num(commuteN)

	// Rating: linear over the 0-5 scale; unknown contributes nothing.
	var ratingN float64
	if c.Hotel.Rating != nil {
		ratingN = clamp01(*c.Hotel.Rating / 5)
		reasons = append(reasons, fmt.Sprintf("rating %.1f of 5", *c.Hotel.Rating))
	} else {
		reasons = append(reasons, "rating unknown, no rating credit")
	}
	details["ratingComponent"] = domain.Num(ratingN)

	// Price: inverse-linear against the observed band of the surviving set.
	var priceN float64
	if c.Rate != nil && band.ok {
		if band.hi > band.lo {
			priceN = clamp01((band.hi - c.Rate.TotalUSD()) / (band.hi - band.lo))
		} else {
			priceN = 1
		}
		reasons = append(reasons, fmt.Sprintf("nightly total $%.2f in band $%.2f-$%.2f",
			c.Rate.TotalUSD(), band.lo, band.hi))
	} else {
		reasons = append(reasons, "rate unknown, no price credit")
	}
	details["priceComponent"] = domain.Num(priceN)

	score := MaxScore * (WeightCommute*commuteN + WeightRating*ratingN + WeightPrice*priceN)

	if c.Hotel.Brand != nil && cs.PreferredBrand(*c.Hotel.Brand) {
		score += BrandBonus
		reasons = append(reasons, fmt.Sprintf("preferred brand %s", *c.Hotel.Brand))
		details["brandBonus"] = domain.Num(BrandBonus)
	}

	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}
	return score, reasons, details
}
