// Package biography drafts employee biographies with a hosted language model.
package biography

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/glimpse/internal/models"
)

// ErrGenerationFailed is returned for any upstream drafting failure. Callers surface it
// to the user as is; nothing is retried.
var ErrGenerationFailed = errors.New("biography generation failed")

// Input is the structured data a draft is written from.
type Input struct {
	FullName          string   `json:"fullName"`
	Position          string   `json:"position"`
	Department        string   `json:"department"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	Skills            []string `json:"skills"`
}

// InputFor builds the drafting input from an employee record.
func InputFor(employee models.Employee) Input {
	years := 0
	if employee.YearsOfExperience != nil {
		years = *employee.YearsOfExperience
	}

	return Input{
		FullName:          employee.FullName(),
		Position:          employee.Company.Title,
		Department:        string(employee.Company.Department),
		YearsOfExperience: years,
		Skills:            employee.Skills,
	}
}

// Drafter turns an Input into biography text.
type Drafter interface {
	Draft(ctx context.Context, in Input) (string, error)
}

// Disabled is the Drafter used when no model is configured. Every call fails.
type Disabled struct{}

func (Disabled) Draft(_ context.Context, _ Input) (string, error) {
	return "", fmt.Errorf("%w: drafting is not configured", ErrGenerationFailed)
}
