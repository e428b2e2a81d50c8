package planner

import "crewplan/internal/domain"

// Stage names are fixed so audit trails stay comparable across runs.
const (
	StageBlacklist = "blacklist-filter"
	StageSafety    = "safety-filter"
	StageCommute   = "commute-filter"
	StageRating    = "rating-filter"
	StagePrice     = "price-filter"
	StageScoring   = "scoring"
	StageCohesion  = "cohesion-resolve"
)

// Recorder accumulates the audit trail for one run. Append-only; the order
// of Records is evaluation order and is never re-sorted.
type Recorder struct {
	records []domain.DecisionRecord
}

func (r *Recorder) Add(rec domain.DecisionRecord) {
	r.records = append(r.records, rec)
}

func (r *Recorder) Records() []domain.DecisionRecord {
	if r.records == nil {
		return []domain.DecisionRecord{}
	}
	return r.records
}
