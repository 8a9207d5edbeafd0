// Package filter derives the visible subset of the directory from the user's criteria.
package filter

import (
	"math"
	"slices"
	"strings"

	"github.com/UnknownOlympus/glimpse/internal/models"
)

// Criteria selects employees. Empty department or rating sets do not restrict.
type Criteria struct {
	Search      string
	Departments []models.Department
	Ratings     []int
}

// IsEmpty reports whether the criteria match every employee.
func (c Criteria) IsEmpty() bool {
	return c.Search == "" && len(c.Departments) == 0 && len(c.Ratings) == 0
}

// Derive returns the employees matching all three predicates, in collection order.
// The input slice is never modified.
func Derive(collection []models.Employee, criteria Criteria) []models.Employee {
	term := strings.ToLower(criteria.Search)

	visible := make([]models.Employee, 0, len(collection))
	for _, employee := range collection {
		if matchesSearch(employee, term) &&
			matchesDepartment(employee, criteria.Departments) &&
			matchesRating(employee, criteria.Ratings) {
			visible = append(visible, employee)
		}
	}

	return visible
}

func matchesSearch(employee models.Employee, term string) bool {
	if term == "" {
		return true
	}

	for _, field := range []string{
		employee.FirstName,
		employee.LastName,
		employee.Email,
		string(employee.Company.Department),
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}

	return false
}

func matchesDepartment(employee models.Employee, departments []models.Department) bool {
	return len(departments) == 0 || slices.Contains(departments, employee.Company.Department)
}

func matchesRating(employee models.Employee, ratings []int) bool {
	if len(ratings) == 0 {
		return true
	}

	return slices.Contains(ratings, int(math.Floor(float64(employee.PerformanceRating))))
}
