// Package roster loads and summarizes school roster records (students, teachers and
// administrators) for display in a virtualized list.
package roster

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Role is a roster member's role.
type Role string

// Known roles.
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Record is one person on the roster.
type Record struct {
	ID    string `json:"id"    yaml:"id"    validate:"required"`
	Name  string `json:"name"  yaml:"name"  validate:"required"`
	Role  Role   `json:"role"  yaml:"role"  validate:"required,oneof=student teacher admin"`
	Class string `json:"class" yaml:"class" validate:"omitempty,max=32"`
	Email string `json:"email" yaml:"email" validate:"omitempty,email"`
}

// ErrInvalidRecord is wrapped by every record validation failure.
var ErrInvalidRecord = errors.New("invalid roster record")

// validate is shared by all record checks; validator.Validate caches struct metadata.
//
//nolint:gochecknoglobals // validator instances are meant to be shared.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report yaml field names rather than Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks r against its field rules.
func (r Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w %q: %s", ErrInvalidRecord, r.ID, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w %q: %w", ErrInvalidRecord, r.ID, err)
	}
	return nil
}

// Matches reports whether query occurs, case-insensitively, in any text field of r.
func (r Record) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{r.ID, r.Name, string(r.Role), r.Class, r.Email} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Filter returns the records matching query. An empty query returns records unchanged.
func Filter(records []Record, query string) []Record {
	if strings.TrimSpace(query) == "" {
		return records
	}
	var out []Record
	for _, r := range records {
		if r.Matches(query) {
			out = append(out, r)
		}
	}
	return out
}

// SortField selects the key records are ordered by.
type SortField int

const (
	// SortByName orders by name, then ID.
	SortByName SortField = iota
	// SortByClass orders by class, then name.
	SortByClass
	// SortByRole orders by role, then name.
	SortByRole
	// SortByID orders by ID.
	SortByID

	numSortFields = 4
)

// String returns the field's display name.
func (f SortField) String() string {
	switch f {
	case SortByName:
		return "name"
	case SortByClass:
		return "class"
	case SortByRole:
		return "role"
	case SortByID:
		return "id"
	default:
		return "unknown"
	}
}

// Next cycles to the following sort field.
func (f SortField) Next() SortField {
	return (f + 1) % numSortFields
}

// Sort orders records in place by field. The sort is stable.
func Sort(records []Record, field SortField) {
	slices.SortStableFunc(records, func(a, b Record) int {
		switch field {
		case SortByClass:
			return cmp.Or(cmp.Compare(a.Class, b.Class), cmp.Compare(a.Name, b.Name))
		case SortByRole:
			return cmp.Or(cmp.Compare(a.Role, b.Role), cmp.Compare(a.Name, b.Name))
		case SortByID:
			return cmp.Compare(a.ID, b.ID)
		default:
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
		}
	})
}
