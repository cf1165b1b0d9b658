package domain

import (
	"regexp"
	"strings"
	"time"
)

var nonKeyChars = regexp.MustCompile(`[^A-Z0-9]`)

const maxProjectKeyLen = 10

type Project struct {
	ID              string
	Key             string
	Name            string
	Description     string
	ProjectType     string
	OwnerID         string
	ScrumMasterID   string
	StartDate       *time.Time
	Deadline        *time.Time
	Status          ProjectStatus
	AIGenerated     bool
	Recommendations []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProjectKey derives the project key from its name: uppercased, every
// character outside A-Z0-9 replaced with an underscore, cut to 10 characters.
func ProjectKey(name string) string {
	key := nonKeyChars.ReplaceAllString(strings.ToUpper(name), "_")
	if len(key) > maxProjectKeyLen {
		key = key[:maxProjectKeyLen]
	}
	return key
}

// DisplayID returns the best short identifier for display.
// It prefers Key; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.Key != "" {
		return p.Key
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// ProjectMember is a Member as recorded on one project.
type ProjectMember struct {
	Member
	ProjectID string
	JoinedAt  time.Time
}
