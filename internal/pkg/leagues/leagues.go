// Package leagues holds the competition allow list, tier weights and
// season lookup used throughout ingest and ticket construction.
//
// Competitions fall into three tiers: a small set of top leagues we
// trust the most, the broader allow list fetched every day, and
// everything else. The tier decides the priority weight a leg gets
// when the pool is sorted and when tickets are scored.
package leagues

// Priority weights per competition tier.
const (
	TopWeight       = 1.0
	PreferredWeight = 0.85
	DefaultWeight   = 0.7
)

// top holds the competitions whose markets are considered the most
// reliable. Legs from these leagues win pool priority and earn the
// full tier weight.
var top = map[int]bool{
	39:  true, // England Premier League
	140: true, // Spain La Liga
	135: true, // Italy Serie A
	78:  true, // Germany Bundesliga
	61:  true, // France Ligue 1
	88:  true, // Netherlands Eredivisie
	203: true, // Turkey Süper Lig
}

// preferred is the default competition allow list for the daily fetch.
var preferred = []int{
	2, 3, 913, 5, 536, 808, 960, 10, 667,
	29, 30, 31, 32, 37, 33, 34, 848,
	311, 310, 342, 218, 144, 315, 71,
	169, 210, 346, 233, 39, 40, 41, 42, 703,
	244, 245, 61, 62, 78, 79, 197, 271, 164, 323,
	135, 136, 389, 88, 89, 408, 103, 104, 106, 94,
	283, 235, 286, 287, 322, 140, 141, 113,
	207, 208, 202, 203, 909, 268, 269, 270, 340,
	201, // Serbia Super Liga
}

// risky competitions are dropped during ingest even if present in the
// allow list.
var risky = map[int]bool{
	291: true, // Iran Azadegan League
	292: true, // Iran Persian Gulf Pro League
	299: true, // UAE Pro League
}

// seasons maps a competition to the season parameter required by the
// standings and team statistics endpoints. Competitions without an
// entry are skipped for those endpoints.
var seasons = map[int]int{
	39:  2024,
	140: 2024,
	135: 2024,
	78:  2024,
	61:  2024,
	88:  2024,
	201: 2024,
	2:   2024,
	3:   2024,
	848: 2024,
}

var preferredSet map[int]bool

func init() {
	preferredSet = make(map[int]bool, len(preferred))
	for _, id := range preferred {
		preferredSet[id] = true
	}
}

// IsTop reports whether the competition is in the trusted top tier.
func IsTop(id int) bool {
	return top[id]
}

// IsPreferred reports whether the competition is on the daily allow list.
func IsPreferred(id int) bool {
	return preferredSet[id]
}

// IsRisky reports whether the competition is blacklisted for ingest.
func IsRisky(id int) bool {
	return risky[id]
}

// Weight returns the priority weight for a competition tier.
func Weight(id int) float64 {
	switch {
	case top[id]:
		return TopWeight
	case preferredSet[id]:
		return PreferredWeight
	default:
		return DefaultWeight
	}
}

// Preferred returns a copy of the daily allow list in its canonical order.
func Preferred() []int {
	out := make([]int, len(preferred))
	copy(out, preferred)
	return out
}

// Season returns the season parameter for a competition, if configured.
func Season(id int) (int, bool) {
	season, ok := seasons[id]
	return season, ok
}
