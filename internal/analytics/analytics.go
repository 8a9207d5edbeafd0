// Package analytics computes the aggregate series shown on the analytics page.
package analytics

import (
	"cmp"
	"math"
	"slices"

	"github.com/UnknownOlympus/glimpse/internal/models"
	"github.com/UnknownOlympus/glimpse/internal/transform"
)

// Months labels the bookmark trend series.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type DepartmentRating struct {
	Department    models.Department `json:"department"`
	AverageRating float64           `json:"averageRating"`
	Employees     int               `json:"employees"`
}

type BookmarkTrend struct {
	Month     string `json:"month"`
	Bookmarks int    `json:"bookmarks"`
}

// DepartmentAverages averages performance ratings per department, rounded to two decimals
// and ordered from best to worst. Departments without employees are omitted; ties keep
// the order in which the department first appears in the collection.
func DepartmentAverages(employees []models.Employee) []DepartmentRating {
	type total struct {
		sum   int
		count int
	}

	order := make([]models.Department, 0, len(models.Departments))
	totals := make(map[models.Department]*total, len(models.Departments))

	for _, employee := range employees {
		dept := employee.Company.Department
		entry, ok := totals[dept]
		if !ok {
			entry = &total{}
			totals[dept] = entry
			order = append(order, dept)
		}
		entry.sum += employee.PerformanceRating
		entry.count++
	}

	ratings := make([]DepartmentRating, 0, len(order))
	for _, dept := range order {
		entry := totals[dept]
		ratings = append(ratings, DepartmentRating{
			Department:    dept,
			AverageRating: round2(float64(entry.sum) / float64(entry.count)),
			Employees:     entry.count,
		})
	}

	slices.SortStableFunc(ratings, func(a, b DepartmentRating) int {
		return cmp.Compare(b.AverageRating, a.AverageRating)
	})

	return ratings
}

// BookmarkTrends synthesizes a twelve month bookmark series with an upward drift.
// The numbers are mock data, not derived from real bookmark history.
func BookmarkTrends(gen transform.Generator) []BookmarkTrend {
	trends := make([]BookmarkTrend, 0, len(Months))
	for i, month := range Months {
		trends = append(trends, BookmarkTrend{
			Month:     month,
			Bookmarks: gen.IntN(30) + 10 + 2*i,
		})
	}

	return trends
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
