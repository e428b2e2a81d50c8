package planner

import (
	"fmt"
	"math"

	"crewplan/internal/domain"
)

// filterEnv is the shared context every filter stage sees.
type filterEnv struct {
	cs           domain.Constraints
	profile      domain.CityProfile
	layoverHours *float64
}

type stageResult struct {
	ok      bool
	reasons []string
	details map[string]domain.Detail
}

func pass(reason string) stageResult { return stageResult{ok: true, reasons: []string{reason}} }
func fail(reason string) stageResult { return stageResult{ok: false, reasons: []string{reason}} }

// Stages run in this fixed order. Each emits exactly one DecisionRecord per
// candidate it evaluates; a reject stops evaluation, so a rejected
// candidate's trail ends with the record of the stage that cut it.
var stages = []struct {
	name string
	eval func(c *domain.HotelCandidate, env filterEnv) stageResult
}{
	{StageBlacklist, checkBlacklist},
	{StageSafety, checkSafety},
	{StageCommute, checkCommute},
	{StageRating, checkRating},
	{StagePrice, checkPrice},
}

// runFilter evaluates one candidate through all stages, appending one record
// per executed stage. memberID tags records during crew-cohesion runs; it is
// empty for single-crew evaluation.
func runFilter(c *domain.HotelCandidate, env filterEnv, rec *Recorder, memberID string) bool {
	for _, st := range stages {
		res := st.eval(c, env)
		out := domain.OutcomeAccept
		if !res.ok {
			out = domain.OutcomeReject
		}
		details := res.details
		if memberID != "" {
			if details == nil {
				details = map[string]domain.Detail{}
			}
			details["member"] = domain.Str(memberID)
		}
		rec.Add(domain.DecisionRecord{
			Stage:   st.name,
			HotelID: c.Hotel.ID,
			Outcome: out,
			Reasons: res.reasons,
			Details: details,
		})
		if !res.ok {
			return false
		}
	}
	return true
}

func checkBlacklist(c *domain.HotelCandidate, env filterEnv) stageResult {
	if env.cs.Blacklisted(c.Hotel.ID) {
		return fail(fmt.Sprintf("hotel %s is blacklisted", c.Hotel.ID))
	}
	return pass("not blacklisted")
}

func checkSafety(c *domain.HotelCandidate, env filterEnv) stageResult {
	flagged := map[string]struct{}{}
	for _, f := range env.cs.SafetyFlags {
		flagged[f] = struct{}{}
	}
	var hits []string
	for _, z := range c.Hotel.Zones {
		if _, ok := flagged[z]; ok {
			hits = append(hits, z)
		}
	}
	for _, t := range env.profile.RiskTags {
		if _, ok := flagged[t]; ok {
			hits = append(hits, t)
		}
	}
	if len(hits) > 0 {
		res := fail(fmt.Sprintf("safety flags matched: %v", hits))
		res.details = map[string]domain.Detail{"matchedFlags": domain.Strs(hits)}
		return res
	}
	if env.profile.Curfew && !env.cs.AllowCurfew {
		res := fail("city under curfew and no override supplied")
		res.details = map[string]domain.Detail{"curfew": domain.Flag(true)}
		return res
	}
	return pass("no safety conflicts")
}

// effectiveCommuteCeiling folds the rest-hours requirement into the commute
// ceiling: with a known layover, rest = layover - 2 x commute, so a rest
// floor caps the one-way commute at (layover - minRest) * 60 / 2 minutes.
func effectiveCommuteCeiling(cs domain.Constraints, layoverHours *float64) (ceiling *int, restCapped bool) {
	if cs.MaxCommuteMinutes != nil {
		v := *cs.MaxCommuteMinutes
		ceiling = &v
	}
	if cs.MinRestHours != nil && layoverHours != nil {
		restCap := int(math.Floor((*layoverHours - *cs.MinRestHours) * 60 / 2))
		if restCap < 0 {
			restCap = 0
		}
		if ceiling == nil || restCap < *ceiling {
			ceiling = &restCap
			restCapped = true
		}
	}
	return ceiling, restCapped
}

func checkCommute(c *domain.HotelCandidate, env filterEnv) stageResult {
	ceiling, restCapped := effectiveCommuteCeiling(env.cs, env.layoverHours)
	if ceiling == nil {
		return pass("no commute restriction")
	}
	if c.ETAMinutes == nil {
		res := fail("no travel-time data")
		res.details = map[string]domain.Detail{"ceilingMinutes": domain.Num(float64(*ceiling))}
		return res
	}
	details := map[string]domain.Detail{
		"minutes":        domain.Num(float64(*c.ETAMinutes)),
		"ceilingMinutes": domain.Num(float64(*ceiling)),
	}
	if c.Travel != nil {
		details["mode"] = domain.Str(string(c.Travel.Mode))
	}
	if *c.ETAMinutes > *ceiling {
		reason := fmt.Sprintf("commute %d min exceeds limit %d min", *c.ETAMinutes, *ceiling)
		res := fail(reason)
		if restCapped {
			res.reasons = append(res.reasons,
				fmt.Sprintf("limit tightened by %.1fh rest requirement", *env.cs.MinRestHours))
		}
		res.details = details
		return res
	}
	res := pass(fmt.Sprintf("commute %d min within limit %d min", *c.ETAMinutes, *ceiling))
	res.details = details
	return res
}

// Missing rating/review data fails a configured floor. Conservative by
// policy: an unknown hotel is not assumed to meet a quality bar.
func checkRating(c *domain.HotelCandidate, env filterEnv) stageResult {
	if env.cs.MinHotelRating == nil && env.cs.MinReviews == nil {
		return pass("no rating floor configured")
	}
	if env.cs.MinHotelRating != nil {
		if c.Hotel.Rating == nil {
			return fail(fmt.Sprintf("rating unknown; floor %.1f configured", *env.cs.MinHotelRating))
		}
		if *c.Hotel.Rating < *env.cs.MinHotelRating {
			res := fail(fmt.Sprintf("rating %.1f below floor %.1f", *c.Hotel.Rating, *env.cs.MinHotelRating))
			res.details = map[string]domain.Detail{"rating": domain.Num(*c.Hotel.Rating)}
			return res
		}
	}
	if env.cs.MinReviews != nil {
		if c.Hotel.Reviews == nil {
			return fail(fmt.Sprintf("review count unknown; floor %d configured", *env.cs.MinReviews))
		}
		if *c.Hotel.Reviews < *env.cs.MinReviews {
			res := fail(fmt.Sprintf("%d reviews below floor %d", *c.Hotel.Reviews, *env.cs.MinReviews))
			res.details = map[string]domain.Detail{"reviews": domain.Num(float64(*c.Hotel.Reviews))}
			return res
		}
	}
	return pass("rating and reviews meet configured floors")
}

func checkPrice(c *domain.HotelCandidate, env filterEnv) stageResult {
	if env.cs.MaxNightlyUSD == nil {
		return pass("no price ceiling configured")
	}
	if c.Rate == nil {
		return fail(fmt.Sprintf("no rate data; ceiling $%.2f configured", *env.cs.MaxNightlyUSD))
	}
	total := c.Rate.TotalUSD()
	details := map[string]domain.Detail{
		"totalUsd":   domain.Num(total),
		"ceilingUsd": domain.Num(*env.cs.MaxNightlyUSD),
	}
	if total > *env.cs.MaxNightlyUSD {
		res := fail(fmt.Sprintf("nightly total $%.2f exceeds ceiling $%.2f", total, *env.cs.MaxNightlyUSD))
		res.details = details
		return res
	}
	res := pass(fmt.Sprintf("nightly total $%.2f within ceiling $%.2f", total, *env.cs.MaxNightlyUSD))
	res.details = details
	return res
}
