package geo

import "time"

// Ranked is implemented by search results so the comparator stays independent
// of the concrete row shape (listing vs item).
type Ranked interface {
	RankDistance() *float64
	RankCreatedAt() time.Time
}

// Less orders two results: ascending distance when location filtering is
// active (rows without a distance sort last), with descending creation time as
// the tie-break and as the sole key when location is inactive.
func Less(p Params, a, b Ranked) bool {
	if p.LocationActive() {
		da, db := a.RankDistance(), b.RankDistance()
		switch {
		case da != nil && db == nil:
			return true
		case da == nil && db != nil:
			return false
		case da != nil && db != nil && *da != *db:
			return *da < *db
		}
	}
	return a.RankCreatedAt().After(b.RankCreatedAt())
}
