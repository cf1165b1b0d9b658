package planning

import (
	"strings"

	"github.com/alexanderramin/taskflow/internal/domain"
)

type keywordGroup struct {
	keywords []string
	bucket   domain.RoleBucket
}

// roleKeywords is evaluated in order; the first group with a keyword
// contained in the label wins. Matching is case-sensitive.
var roleKeywords = []keywordGroup{
	{[]string{"PRODUCT_OWNER", "Product Owner", "Project Manager"}, domain.BucketProductOwner},
	{[]string{"MANAGER", "SCRUM_MASTER", "TEAM_LEAD", "Manager", "Scrum Master", "Team Lead"}, domain.BucketManager},
	{[]string{"Frontend", "FRONTEND"}, domain.BucketFrontend},
	{[]string{"Backend", "BACKEND"}, domain.BucketBackend},
	{[]string{"Full Stack", "Full-stack", "FULLSTACK"}, domain.BucketFullstack},
	{[]string{"TESTER", "QA", "Tester"}, domain.BucketTester},
	{[]string{"DESIGNER", "Designer"}, domain.BucketDesigner},
	{[]string{"DevOps", "DEVOPS"}, domain.BucketDevOps},
}

// ClassifyRole maps a free-text role label to a role bucket.
// Unknown labels fall into DEVELOPER.
func ClassifyRole(label string) domain.RoleBucket {
	for _, g := range roleKeywords {
		for _, kw := range g.keywords {
			if strings.Contains(label, kw) {
				return g.bucket
			}
		}
	}
	return domain.BucketDeveloper
}

// preferredBuckets lists, per requested role, the buckets eligible for it
// in preference order.
var preferredBuckets = map[string][]domain.RoleBucket{
	"Frontend Developer":   {domain.BucketFrontend, domain.BucketFullstack},
	"Backend Developer":    {domain.BucketBackend, domain.BucketFullstack},
	"Full Stack Developer": {domain.BucketFullstack, domain.BucketFrontend, domain.BucketBackend},
	"Tester":               {domain.BucketTester},
	"Designer":             {domain.BucketDesigner},
	"Project Manager":      {domain.BucketProductOwner, domain.BucketManager},
	"DevOps":               {domain.BucketDevOps, domain.BucketFullstack},
}

var defaultBuckets = []domain.RoleBucket{domain.BucketDeveloper, domain.BucketFullstack}

// PreferredBuckets returns the eligible buckets for a requested role.
func PreferredBuckets(requestedRole string) []domain.RoleBucket {
	if b, ok := preferredBuckets[requestedRole]; ok {
		return b
	}
	return defaultBuckets
}

// Roster is an immutable, pre-classified view of the team for one planning run.
type Roster struct {
	members []domain.Member
	buckets map[domain.RoleBucket][]domain.Member
}

// NewRoster classifies every member once. Duplicate user ids keep the first entry.
func NewRoster(members []domain.Member) *Roster {
	r := &Roster{buckets: make(map[domain.RoleBucket][]domain.Member)}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if m.UserID == "" || seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		r.members = append(r.members, m)
		b := ClassifyRole(m.EffectiveRole())
		r.buckets[b] = append(r.buckets[b], m)
	}
	return r
}

// Members returns the roster in input order.
func (r *Roster) Members() []domain.Member {
	return r.members
}

// Len returns the number of distinct members.
func (r *Roster) Len() int {
	return len(r.members)
}

// Bucket returns the members classified into b, in roster order.
func (r *Roster) Bucket(b domain.RoleBucket) []domain.Member {
	return r.buckets[b]
}

// Lookup finds a member by user id.
func (r *Roster) Lookup(userID string) (domain.Member, bool) {
	for _, m := range r.members {
		if m.UserID == userID {
			return m, true
		}
	}
	return domain.Member{}, false
}

// CandidatePool returns the role-matched members for a requested role,
// grouped by preferred bucket order. An empty match yields the whole roster.
func (r *Roster) CandidatePool(requestedRole string) []domain.Member {
	var pool []domain.Member
	for _, b := range PreferredBuckets(requestedRole) {
		pool = append(pool, r.buckets[b]...)
	}
	if len(pool) == 0 {
		return r.members
	}
	return pool
}
