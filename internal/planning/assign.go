package planning

import (
	"sort"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// AssignmentCounter tracks how many tasks each member received during one
// planning run. The zero value is not usable; call NewAssignmentCounter.
type AssignmentCounter struct {
	counts map[string]int
}

// NewAssignmentCounter seeds a zero count for every roster member.
func NewAssignmentCounter(r *Roster) *AssignmentCounter {
	c := &AssignmentCounter{counts: make(map[string]int, r.Len())}
	for _, m := range r.Members() {
		c.counts[m.UserID] = 0
	}
	return c
}

// Count returns the current count for a user.
func (c *AssignmentCounter) Count(userID string) int {
	return c.counts[userID]
}

// Increment records one more task for a user.
func (c *AssignmentCounter) Increment(userID string) {
	c.counts[userID]++
}

// Snapshot returns a copy of the counts.
func (c *AssignmentCounter) Snapshot() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// Distribution is one member's final task count, for reporting.
type Distribution struct {
	UserID string
	Name   string
	Bucket domain.RoleBucket
	Count  int
}

// Distribution returns per-member counts in roster order.
func (c *AssignmentCounter) Distribution(r *Roster) []Distribution {
	out := make([]Distribution, 0, r.Len())
	for _, m := range r.Members() {
		out = append(out, Distribution{
			UserID: m.UserID,
			Name:   m.Name(),
			Bucket: ClassifyRole(m.EffectiveRole()),
			Count:  c.counts[m.UserID],
		})
	}
	return out
}

// Select picks the assignee for a task requesting role and increments
// the chosen member's count. It returns false only when the roster is empty.
//
// While any member has zero tasks, a zero-count member is chosen: first one
// in the role-matched pool, otherwise the first in roster order. After that
// the least-loaded pool member wins, earliest in pool order on ties.
func Select(requestedRole string, r *Roster, c *AssignmentCounter) (domain.Member, bool) {
	if r.Len() == 0 {
		return domain.Member{}, false
	}
	pool := r.CandidatePool(requestedRole)

	// Pool order is bucket preference, not roster order.
	chosen, ok := firstZero(pool, c)
	if !ok {
		chosen, ok = firstZero(r.Members(), c)
	}
	if !ok {
		chosen = leastLoaded(pool, c)
	}
	c.Increment(chosen.UserID)
	return chosen, true
}

func firstZero(members []domain.Member, c *AssignmentCounter) (domain.Member, bool) {
	for _, m := range members {
		if c.Count(m.UserID) == 0 {
			return m, true
		}
	}
	return domain.Member{}, false
}

func leastLoaded(pool []domain.Member, c *AssignmentCounter) domain.Member {
	best := pool[0]
	for _, m := range pool[1:] {
		if c.Count(m.UserID) < c.Count(best.UserID) {
			best = m
		}
	}
	return best
}

// SortedCounts returns counts sorted ascending; handy for invariant checks.
func (c *AssignmentCounter) SortedCounts() []int {
	out := make([]int, 0, len(c.counts))
	for _, v := range c.counts {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
