package builder

import (
	"fmt"
	"hash/fnv"
	"io"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/Vodeneev/ticketbet/internal/pkg/models"
)

// maxMixAttempts bounds the randomized search per Mix call.
const maxMixAttempts = 400

// Mixer assembles tickets by sampling random leg combinations from a
// seeded source, so a given (day, set) pair always produces the same
// tickets.
type Mixer struct {
	rng *rand.Rand
}

// NewMixer returns a mixer over its own deterministic source.
func NewMixer(seed int64) *Mixer {
	return &Mixer{rng: rand.New(rand.NewSource(seed))}
}

// MixSeed derives the mixer seed for one batch day and set code.
func MixSeed(day time.Time, setCode string) int64 {
	h := fnv.New64a()
	io.WriteString(h, day.Format("2006-01-02"))
	io.WriteString(h, setCode)
	return int64(h.Sum64())
}

// Mix draws up to maxTickets valid combinations. Each attempt samples
// k legs, k random in [LegsMin, LegsMax], and keeps the sample only if
// it passes whole-ticket validation, reuses no fixture already
// committed in this call and has not been produced before (signature
// on the sorted (fixture, market) pairs). Attempts are bounded, so a
// pool that cannot satisfy the window simply yields fewer tickets.
func (m *Mixer) Mix(pool []models.Leg, cfg SetConfig, maxTickets int) []models.Ticket {
	usable := usableLegs(pool)
	if len(usable) < cfg.LegsMin {
		return nil
	}

	var tickets []models.Ticket
	used := make(map[int]bool, len(usable))
	seen := make(map[string]bool)

	for attempts := 0; len(tickets) < maxTickets && attempts < maxMixAttempts; attempts++ {
		upper := min(cfg.LegsMax, len(usable))
		k := cfg.LegsMin + m.rng.Intn(upper-cfg.LegsMin+1)
		sample := m.sample(usable, k)

		if overlapsUsed(sample, used) {
			continue
		}
		if !validTicket(sample, cfg.TargetMin, cfg.TargetMax, cfg.FamilyCap) {
			continue
		}
		sig := signature(sample)
		if seen[sig] {
			continue
		}
		seen[sig] = true

		for _, l := range sample {
			used[l.FixtureID] = true
		}
		tickets = append(tickets, newTicket(sample))
	}
	return tickets
}

// sample picks k distinct legs uniformly at random.
func (m *Mixer) sample(pool []models.Leg, k int) []models.Leg {
	idx := m.rng.Perm(len(pool))[:k]
	sample := make([]models.Leg, k)
	for i, j := range idx {
		sample[i] = pool[j]
	}
	return sample
}

// signature identifies a combination independent of sample order.
func signature(legs []models.Leg) string {
	keys := make([]string, len(legs))
	for i, l := range legs {
		keys[i] = fmt.Sprintf("%d/%s", l.FixtureID, l.Market)
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

func overlapsUsed(legs []models.Leg, used map[int]bool) bool {
	for _, l := range legs {
		if used[l.FixtureID] {
			return true
		}
	}
	return false
}
