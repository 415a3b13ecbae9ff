package view

import (
	"math"

	"myday/internal/task"
)

// Progress summarizes completion over a view.
type Progress struct {
	Total      int
	Completed  int
	Pending    int
	Percentage float64
}

// Aggregate computes Progress for v. Deleted tasks are skipped even though a
// filtered view should not contain them. Percentage is not rounded.
func Aggregate(v []task.Task) Progress {
	var p Progress
	for _, t := range v {
		if t.Deleted {
			continue
		}
		p.Total++
		if t.Completed {
			p.Completed++
		}
	}
	p.Pending = p.Total - p.Completed
	if p.Total > 0 {
		p.Percentage = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}

// Rounded is the percentage as shown on the progress card.
func (p Progress) Rounded() int {
	return int(math.Round(p.Percentage))
}
