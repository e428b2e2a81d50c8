package planner_test

import (
	"testing"

	"crewplan/internal/domain"
	"crewplan/internal/planner"
)

func crewInput(hotels []domain.Hotel, cs domain.Constraints, members []domain.CrewMember) domain.PlanInput {
	cs.SameHotelForCrew = true
	in := baseInput(hotels, cs)
	in.Members = members
	return in
}

func TestCohesion_DisjointSetsRejectAtPairingLevel(t *testing.T) {
	h1 := hotel("h1", "North Hotel", 4.2, 300)
	h2 := hotel("h2", "South Hotel", 4.2, 300)

	// captain can only reach h1, first officer only h2
	members := []domain.CrewMember{
		{ID: "capt", Travel: map[string][]domain.TravelTime{
			"h1": {allDay("h1", domain.ModeDrive, 15, 9)},
			"h2": {allDay("h2", domain.ModeDrive, 90, 60)},
		}},
		{ID: "fo", Travel: map[string][]domain.TravelTime{
			"h1": {allDay("h1", domain.ModeDrive, 90, 60)},
			"h2": {allDay("h2", domain.ModeDrive, 15, 9)},
		}},
	}
	in := crewInput([]domain.Hotel{h1, h2}, domain.Constraints{MaxCommuteMinutes: ptr(30)}, members)
	out := mustPlan(t, in)

	if out.Chosen != nil {
		t.Fatalf("disjoint commutable sets must leave chosen absent, got %+v", out.Chosen)
	}
	if len(out.Candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(out.Candidates))
	}
	var pairing *domain.DecisionRecord
	for i := range out.Audit {
		r := out.Audit[i]
		if r.Stage == planner.StageCohesion {
			pairing = &out.Audit[i]
		}
	}
	if pairing == nil || pairing.Outcome != domain.OutcomeReject {
		t.Fatalf("missing pairing-level cohesion reject")
	}
	if pairing.HotelID != "" {
		t.Fatalf("pairing record must not name a hotel, got %q", pairing.HotelID)
	}
	if len(pairing.Reasons) == 0 || pairing.Reasons[0] != "no common hotel" {
		t.Fatalf("unexpected reasons: %v", pairing.Reasons)
	}
}

func TestCohesion_CommonHotelWinsWithAveragedScore(t *testing.T) {
	h1 := hotel("h1", "Near Both", 4.0, 300)
	h2 := hotel("h2", "Near Capt Only", 4.9, 900)

	members := []domain.CrewMember{
		{ID: "capt", Travel: map[string][]domain.TravelTime{
			"h1": {allDay("h1", domain.ModeDrive, 20, 12)},
			"h2": {allDay("h2", domain.ModeDrive, 10, 6)},
		}},
		{ID: "fo", Travel: map[string][]domain.TravelTime{
			"h1": {allDay("h1", domain.ModeDrive, 25, 15)},
			"h2": {allDay("h2", domain.ModeDrive, 80, 55)},
		}},
	}
	in := crewInput([]domain.Hotel{h1, h2}, domain.Constraints{MaxCommuteMinutes: ptr(30)}, members)
	out := mustPlan(t, in)

	// h2 is better for the captain but not commutable for the FO; the crew
	// takes the common hotel.
	if out.Chosen == nil || out.Chosen.Hotel.ID != "h1" {
		t.Fatalf("expected h1 chosen, got %+v", out.Chosen)
	}

	var score *domain.DecisionRecord
	for i := range out.Audit {
		r := out.Audit[i]
		if r.Stage == planner.StageScoring && r.HotelID == "h1" {
			score = &out.Audit[i]
		}
	}
	if score == nil || score.Score == nil {
		t.Fatalf("missing scoring record for h1")
	}
	ms, ok := score.Details["memberScores"]
	if !ok || ms.Kind != domain.DetailNumberList || len(ms.Numbers) != 2 {
		t.Fatalf("expected per-member scores on the record, got %+v", score.Details)
	}
	want := (ms.Numbers[0] + ms.Numbers[1]) / 2
	if *score.Score != want {
		t.Fatalf("score %.4f is not the member average %.4f", *score.Score, want)
	}
}

func TestCohesion_MemberFallsBackToSharedTravel(t *testing.T) {
	h1 := hotel("h1", "Shared Travel Hotel", 4.0, 300)
	members := []domain.CrewMember{
		{ID: "capt"}, // no overrides at all
		{ID: "fo", Travel: map[string][]domain.TravelTime{
			"h1": {allDay("h1", domain.ModeDrive, 25, 15)},
		}},
	}
	in := crewInput([]domain.Hotel{h1}, domain.Constraints{MaxCommuteMinutes: ptr(30)}, members)
	out := mustPlan(t, in)

	if out.Chosen == nil || out.Chosen.Hotel.ID != "h1" {
		t.Fatalf("expected shared travel records to cover the captain, got %+v", out.Chosen)
	}
}

func TestCohesion_MemberRecordsAreTagged(t *testing.T) {
	h1 := hotel("h1", "A", 4.0, 300)
	members := []domain.CrewMember{{ID: "capt"}, {ID: "fo"}}
	in := crewInput([]domain.Hotel{h1}, domain.Constraints{}, members)
	out := mustPlan(t, in)

	tagged := map[string]bool{}
	for _, r := range out.Audit {
		if m, ok := r.Details["member"]; ok {
			tagged[m.Str] = true
		}
	}
	if !tagged["capt"] || !tagged["fo"] {
		t.Fatalf("expected filter records tagged per member, got %v", tagged)
	}
}
