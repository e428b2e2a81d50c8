package spatial

import (
	"math"
	"time"

	"github.com/golang/geo/s2"

	"crewplan/internal/domain"
)

const EarthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between two coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// Governing-mode preference when several records cover the same arrival:
// crews ride what the airline books, so drive beats shuttle beats transit.
var modeRank = map[domain.TravelMode]int{
	domain.ModeDrive:   0,
	domain.ModeShuttle: 1,
	domain.ModeTransit: 2,
}

// BestTravelTime picks the record whose validity window covers the arrival.
// Among covering records the preferred mode wins; within a mode the lower
// minutes win. Returns nil when no record covers the arrival.
func BestTravelTime(recs []domain.TravelTime, arrival time.Time) *domain.TravelTime {
	var best *domain.TravelTime
	for i := range recs {
		r := recs[i]
		if !r.Covers(arrival) {
			continue
		}
		if best == nil {
			c := r
			best = &c
			continue
		}
		br, rr := modeRank[best.Mode], modeRank[r.Mode]
		if rr < br || (rr == br && r.Minutes < best.Minutes) {
			c := r
			best = &c
		}
	}
	return best
}

// Urban average speeds per mode, km/h. Used only for distance-derived
// estimates when the matrix provider has no record.
var modeSpeedKmh = map[domain.TravelMode]float64{
	domain.ModeDrive:   40,
	domain.ModeShuttle: 35,
	domain.ModeTransit: 25,
}

// EstimateMinutes derives a commute estimate from straight-line distance.
func EstimateMinutes(km float64, mode domain.TravelMode) int {
	speed, ok := modeSpeedKmh[mode]
	if !ok {
		speed = modeSpeedKmh[domain.ModeDrive]
	}
	return int(math.Ceil(km / speed * 60))
}
