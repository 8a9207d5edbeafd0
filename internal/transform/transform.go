// Package transform turns raw listing records into directory employees.
package transform

import (
	"fmt"

	"github.com/UnknownOlympus/glimpse/internal/models"
)

const (
	minSkills     = 3
	maxSkills     = 6
	maxExperience = 15
)

// Transformer maps raw listing records onto models.Employee. It never fails: every absent
// field is replaced by a placeholder or a generated value.
type Transformer struct {
	gen Generator
}

func NewTransformer(gen Generator) *Transformer {
	return &Transformer{gen: gen}
}

// Transform converts one raw record. Mock sub-records are regenerated on every call,
// so transforming the same input twice yields different ratings, skills and history.
func (t *Transformer) Transform(raw models.RawUser) models.Employee {
	company := models.RawCompany{}
	if raw.Company != nil {
		company = *raw.Company
	}
	address := models.RawAddress{}
	if raw.Address != nil {
		address = *raw.Address
	}

	department := models.Department(company.Department)
	if !models.IsDepartment(company.Department) {
		department = models.Departments[t.gen.IntN(len(models.Departments))]
	}

	email := raw.Email
	if email == "" {
		email = t.gen.Email()
	}

	years := IntBetween(t.gen, 1, maxExperience)

	return models.Employee{
		ID:        raw.ID,
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Email:     email,
		Age:       raw.Age,
		Image:     raw.Image,
		Username:  raw.Username,
		Phone:     raw.Phone,
		Company: models.Company{
			Department: department,
			Title:      orPlaceholder(company.Title),
			Name:       orPlaceholder(company.Name),
		},
		Address: models.Address{
			Address:    orPlaceholder(address.Address),
			City:       orPlaceholder(address.City),
			State:      orPlaceholder(address.State),
			PostalCode: orPlaceholder(address.PostalCode),
			Country:    orPlaceholder(address.Country),
		},
		PerformanceRating: IntBetween(t.gen, 1, 5),
		Bio:               defaultBio(company),
		YearsOfExperience: &years,
		Skills:            Skills(t.gen, IntBetween(t.gen, minSkills, maxSkills)),
		PastPerformance:   PastPerformance(t.gen),
		Projects:          Projects(t.gen),
		Feedback:          Feedback(t.gen),
	}
}

// TransformAll converts a page of raw records and reports how many had no email.
func (t *Transformer) TransformAll(raws []models.RawUser) ([]models.Employee, int) {
	var emailsFixed int
	employees := make([]models.Employee, 0, len(raws))

	for _, raw := range raws {
		if raw.Email == "" {
			emailsFixed++
		}
		employees = append(employees, t.Transform(raw))
	}

	return employees, emailsFixed
}

func defaultBio(company models.RawCompany) string {
	if company.Department != "" && company.Title != "" {
		return fmt.Sprintf(
			"An experienced %s in the %s department. Dedicated and results-oriented professional.",
			company.Title, company.Department)
	}

	return "A valuable member of the team, bringing enthusiasm and a unique skill set."
}

func orPlaceholder(value string) string {
	if value == "" {
		return models.Placeholder
	}

	return value
}
