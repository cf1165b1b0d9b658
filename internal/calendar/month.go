package calendar

import (
	"cmp"
	"slices"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// Bar is one sprint drawn across a month. Days are 1-based days of the month.
type Bar struct {
	SprintID string
	Name     string
	Status   domain.SprintStatus
	StartDay int
	EndDay   int
	// Row is the lane the bar occupies; overlapping bars never share a row.
	Row int
	// ContinuesBefore is set when the sprint started in an earlier month.
	ContinuesBefore bool
	// ContinuesAfter is set when the sprint ends in a later month.
	ContinuesAfter bool
}

// Day is one calendar cell.
type Day struct {
	Date    time.Time
	Tasks   []domain.Task
	Sprints []string
}

// MonthView is everything needed to render one month.
type MonthView struct {
	Start time.Time
	Bars  []Bar
	Days  []Day
}

// Rows returns the number of lanes the bars need.
func (m MonthView) Rows() int {
	n := 0
	for _, b := range m.Bars {
		n = max(n, b.Row+1)
	}
	return n
}

// MonthStart normalises any instant to midnight UTC on the first of its month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Bars clips every dated sprint to the month starting at monthStart.
// Sprints without both dates, or outside the month, are skipped.
func Bars(sprints []domain.Sprint, monthStart time.Time) []Bar {
	first := MonthStart(monthStart)
	last := first.AddDate(0, 1, -1)

	dated := make([]domain.Sprint, 0, len(sprints))
	for _, s := range sprints {
		if s.StartDate == nil || s.EndDate == nil {
			continue
		}
		start, end := dayOf(*s.StartDate), dayOf(*s.EndDate)
		if start.After(last) || end.Before(first) || end.Before(start) {
			continue
		}
		dated = append(dated, s)
	}
	slices.SortStableFunc(dated, func(a, b domain.Sprint) int {
		return a.StartDate.Compare(*b.StartDate)
	})

	bars := make([]Bar, 0, len(dated))
	for _, s := range dated {
		start, end := dayOf(*s.StartDate), dayOf(*s.EndDate)
		b := Bar{
			SprintID: s.ID,
			Name:     s.Name,
			Status:   s.Status,
			StartDay: 1,
			EndDay:   last.Day(),
		}
		if start.Before(first) {
			b.ContinuesBefore = true
		} else {
			b.StartDay = start.Day()
		}
		if end.After(last) {
			b.ContinuesAfter = true
		} else {
			b.EndDay = end.Day()
		}
		b.Row = freeRow(bars, b)
		bars = append(bars, b)
	}
	return bars
}

// Month builds the month grid: sprint bars plus the tasks due on each day.
func Month(sprints []domain.Sprint, tasks []domain.Task, monthStart time.Time) MonthView {
	first := MonthStart(monthStart)
	view := MonthView{Start: first, Bars: Bars(sprints, first)}

	days := first.AddDate(0, 1, -1).Day()
	view.Days = make([]Day, days)
	for i := range view.Days {
		view.Days[i].Date = first.AddDate(0, 0, i)
	}
	for _, b := range view.Bars {
		for d := b.StartDay; d <= b.EndDay; d++ {
			view.Days[d-1].Sprints = append(view.Days[d-1].Sprints, b.SprintID)
		}
	}
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		due := dayOf(*t.DueDate)
		if due.Year() != first.Year() || due.Month() != first.Month() {
			continue
		}
		view.Days[due.Day()-1].Tasks = append(view.Days[due.Day()-1].Tasks, t)
	}
	for i := range view.Days {
		slices.SortStableFunc(view.Days[i].Tasks, func(a, b domain.Task) int {
			return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		})
	}
	return view
}

// ColorIndex picks a stable palette slot for a sprint id.
func ColorIndex(id string, n int) int {
	if n <= 0 {
		return 0
	}
	var h int32
	for _, r := range id {
		h = int32(r) + (h << 5) - h
	}
	if h < 0 {
		h = -h
	}
	return int(h) % n
}

func freeRow(placed []Bar, b Bar) int {
	used := make(map[int]bool)
	for _, p := range placed {
		if b.StartDay <= p.EndDay && b.EndDay >= p.StartDay {
			used[p.Row] = true
		}
	}
	row := 0
	for used[row] {
		row++
	}
	return row
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
