package roster

import (
	"slices"
)

// Summary holds aggregate counts for the roster stat cards.
type Summary struct {
	// Total is the number of records summarized.
	Total int `json:"total" yaml:"total"`

	// ByRole counts records per role.
	ByRole map[Role]int `json:"by_role" yaml:"by_role"`

	// ByClass counts students per class.
	ByClass map[string]int `json:"by_class" yaml:"by_class"`

	// Classes lists class names in sorted order.
	Classes []string `json:"classes" yaml:"classes"`
}

// Summarize computes aggregate counts over records.
func Summarize(records []Record) *Summary {
	s := &Summary{
		Total:   len(records),
		ByRole:  make(map[Role]int),
		ByClass: make(map[string]int),
	}
	for _, r := range records {
		s.ByRole[r.Role]++
		if r.Class != "" && r.Role == RoleStudent {
			s.ByClass[r.Class]++
		}
	}

	s.Classes = make([]string, 0, len(s.ByClass))
	for c := range s.ByClass {
		s.Classes = append(s.Classes, c)
	}
	slices.Sort(s.Classes)
	return s
}

// StudentsPerTeacher returns the student-to-teacher ratio, or 0 without teachers.
func (s *Summary) StudentsPerTeacher() float64 {
	teachers := s.ByRole[RoleTeacher]
	if teachers == 0 {
		return 0
	}
	return float64(s.ByRole[RoleStudent]) / float64(teachers)
}

// LargestClass returns the class with the most students; ties go to the first name in order.
func (s *Summary) LargestClass() (string, int) {
	best, bestCount := "", 0
	for _, c := range s.Classes {
		if n := s.ByClass[c]; n > bestCount {
			best, bestCount = c, n
		}
	}
	return best, bestCount
}
