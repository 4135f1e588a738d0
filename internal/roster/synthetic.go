package roster

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Synthetic roster shape.
const (
	studentsPerTeacher = 20
	teachersPerAdmin   = 10
	gradeCount         = 6
	firstGrade         = 7
	sectionsPerGrade   = 4

	// pcgStream decorrelates the second PCG word from the seed.
	pcgStream = 0x9e3779b97f4a7c15
)

//nolint:gochecknoglobals // Fixed name pools for synthetic data.
var (
	givenNames = []string{
		"Amani", "Baraka", "Chausiku", "Daudi", "Eshe", "Faraji", "Gathoni", "Hadiya",
		"Imani", "Jabari", "Kioni", "Lulu", "Makena", "Nuru", "Omondi", "Pendo",
		"Rehema", "Sefu", "Tumaini", "Wanjiru", "Zawadi", "Ayo", "Kofi", "Nia",
	}
	familyNames = []string{
		"Achieng", "Banda", "Chege", "Diallo", "Eze", "Fofana", "Gitau", "Haji",
		"Juma", "Kamau", "Mwangi", "Njoroge", "Okafor", "Otieno", "Wekesa", "Zulu",
	}
)

// Synthetic generates n deterministic roster records. The same (n, seed) always
// yields the same roster.
func Synthetic(n int, seed uint64) []Record {
	if n <= 0 {
		return []Record{}
	}

	rng := rand.New(rand.NewPCG(seed, seed^pcgStream))
	records := make([]Record, n)
	for i := range records {
		given := givenNames[rng.IntN(len(givenNames))]
		family := familyNames[rng.IntN(len(familyNames))]

		role := RoleStudent
		switch {
		case i%(studentsPerTeacher*teachersPerAdmin) == studentsPerTeacher*teachersPerAdmin-1:
			role = RoleAdmin
		case i%studentsPerTeacher == studentsPerTeacher-1:
			role = RoleTeacher
		}

		class := ""
		if role != RoleAdmin {
			class = fmt.Sprintf("Grade %d%c", firstGrade+rng.IntN(gradeCount), 'A'+rune(rng.IntN(sectionsPerGrade)))
		}

		records[i] = Record{
			ID:    fmt.Sprintf("%c%06d", strings.ToUpper(string(role))[0], i+1),
			Name:  given + " " + family,
			Role:  role,
			Class: class,
			Email: fmt.Sprintf("%s.%s%d@school.example", strings.ToLower(given), strings.ToLower(family), i+1),
		}
	}
	return records
}
