package planning

import (
	"errors"
	"fmt"

	"github.com/gammazero/toposort"
)

// ErrDependencyCycle is reported when task dependencies cannot be ordered.
var ErrDependencyCycle = errors.New("task dependencies contain a cycle")

// OrderByDependencies orders tasks so that each one comes after the tasks
// named in its Dependencies. Unknown or self references are ignored. On a
// cycle the input order is returned together with ErrDependencyCycle.
func OrderByDependencies(tasks []DraftTask) ([]DraftTask, error) {
	if len(tasks) < 2 {
		return tasks, nil
	}

	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if _, dup := index[t.Title]; !dup {
			index[t.Title] = i
		}
	}

	var edges []toposort.Edge
	for i, t := range tasks {
		linked := false
		for _, dep := range t.Dependencies {
			j, ok := index[dep]
			if !ok || j == i {
				continue
			}
			edges = append(edges, toposort.Edge{j, i})
			linked = true
		}
		if !linked {
			edges = append(edges, toposort.Edge{nil, i})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return tasks, fmt.Errorf("%w: %v", ErrDependencyCycle, err)
	}

	out := make([]DraftTask, 0, len(tasks))
	placed := make(map[int]bool, len(tasks))
	for _, n := range sorted {
		if n == nil {
			continue
		}
		i := n.(int)
		if placed[i] {
			continue
		}
		placed[i] = true
		out = append(out, tasks[i])
	}
	if len(out) != len(tasks) {
		return tasks, fmt.Errorf("%w: ordered %d of %d tasks", ErrDependencyCycle, len(out), len(tasks))
	}
	return out, nil
}
