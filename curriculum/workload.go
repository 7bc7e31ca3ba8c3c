package curriculum

import "sort"

// Workload summarizes credits and hours declared by a program's activities.
type Workload struct {
	Program          string  `json:"program"`
	Activities       int     `json:"activities"`
	Subjects         int     `json:"subjects"`
	Credits          float64 `json:"credits"`
	DirectHours      float64 `json:"direct_hours"`
	IndependentHours float64 `json:"independent_hours"`

	// IndependentRatio is independent over direct hours; 0 when no direct
	// hours are declared.
	IndependentRatio float64 `json:"independent_ratio"`

	// BySemester counts activities per declared semester.
	BySemester map[int]int `json:"by_semester,omitempty"`
}

// SummarizeWorkload aggregates activities that belong to program.
// Credits are summed once per subject since every activity row of a
// subject repeats the subject's credits.
func SummarizeWorkload(program string, activities []Activity) Workload {
	wl := Workload{Program: program, BySemester: make(map[int]int)}
	credits := make(map[string]float64)

	for _, a := range activities {
		if a.Program != program {
			continue
		}
		wl.Activities++
		if a.Credits != nil {
			if _, seen := credits[a.Subject]; !seen {
				credits[a.Subject] = *a.Credits
			}
		}
		if a.DirectHours != nil {
			wl.DirectHours += *a.DirectHours
		}
		if a.IndependentHours != nil {
			wl.IndependentHours += *a.IndependentHours
		}
		if a.Semester != nil {
			wl.BySemester[*a.Semester]++
		}
	}

	subjects := make(map[string]struct{})
	for _, a := range activities {
		if a.Program == program && a.Subject != "" {
			subjects[a.Subject] = struct{}{}
		}
	}
	wl.Subjects = len(subjects)

	for _, c := range credits {
		wl.Credits += c
	}
	if wl.DirectHours > 0 {
		wl.IndependentRatio = wl.IndependentHours / wl.DirectHours
	}
	return wl
}

// Semesters returns the declared semesters in ascending order.
func (w Workload) Semesters() []int {
	out := make([]int, 0, len(w.BySemester))
	for s := range w.BySemester {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
