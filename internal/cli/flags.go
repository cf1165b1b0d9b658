package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

const dateLayout = "2006-01-02"

// parseMember reads a --member value of the form "userID[:Name[:Role]]".
func parseMember(s string) (domain.Member, error) {
	parts := strings.SplitN(s, ":", 3)
	m := domain.Member{UserID: strings.TrimSpace(parts[0])}
	if m.UserID == "" {
		return domain.Member{}, fmt.Errorf("invalid member %q: user id is required", s)
	}
	if len(parts) > 1 {
		m.DisplayName = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		m.Role = strings.TrimSpace(parts[2])
	}
	return m, nil
}

func parseMembers(values []string) ([]domain.Member, error) {
	out := make([]domain.Member, 0, len(values))
	for _, v := range values {
		m, err := parseMember(v)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// parseOptionalDate returns nil for an empty value.
func parseOptionalDate(flag, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if err := validateOptionalDate(s); err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", flag, s, err)
	}
	d, _ := time.Parse(dateLayout, s)
	return &d, nil
}

// parseMonth reads YYYY-MM, defaulting to the month containing now.
func parseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	m, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: use YYYY-MM format", s)
	}
	return m, nil
}

// parseStatus accepts board status names in any case, with spaces or dashes.
func parseStatus(s string) (domain.TaskStatus, error) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToUpper(strings.TrimSpace(s)))
	st := domain.TaskStatus(norm)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q (use todo, in-progress, review or done)", s)
	}
	return st, nil
}

func parsePriority(s string) (domain.Priority, error) {
	if s == "" {
		return "", nil
	}
	p := domain.Priority(strings.ToUpper(s))
	if p.Rank() > domain.PriorityLowest.Rank() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}
