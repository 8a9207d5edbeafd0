package transform

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/UnknownOlympus/glimpse/internal/models"
)

const dateLayout = "2006-01-02"

const (
	pastPerformanceCount = 3
	projectCount         = 2
	feedbackCount        = 2
	firstReviewYear      = 2022
	feedbackYear         = 2023
)

// SkillPool is the set generated skills are drawn from.
var SkillPool = []string{
	"JavaScript", "React", "Node.js", "Python", "Project Management", "Communication",
	"Teamwork", "Leadership", "Data Analysis", "Marketing Strategy", "Salesforce", "UX Design",
}

// Skills draws count distinct skills from SkillPool.
func Skills(gen Generator, count int) []string {
	pool := slices.Clone(SkillPool)
	count = min(count, len(pool))

	skills := make([]string, 0, count)
	for range count {
		idx := gen.IntN(len(pool))
		skills = append(skills, pool[idx])
		pool = slices.Delete(pool, idx, idx+1)
	}

	return skills
}

// PastPerformance generates one review per year starting at 2022, newest first.
func PastPerformance(gen Generator) []models.PastPerformance {
	reviews := make([]models.PastPerformance, 0, pastPerformanceCount)
	for i := range pastPerformanceCount {
		year := firstReviewYear + i
		date := time.Date(year, time.Month(IntBetween(gen, 1, 12)), IntBetween(gen, 1, 28), 0, 0, 0, 0, time.UTC)
		reviews = append(reviews, models.PastPerformance{
			ID:     fmt.Sprintf("pp-%d-%s", i, gen.ID()),
			Date:   date.Format(dateLayout),
			Rating: IntBetween(gen, 1, 5),
			Comments: fmt.Sprintf(
				"Performance review for Q%d %d. Lorem ipsum dolor sit amet.", IntBetween(gen, 1, 4), year),
		})
	}

	slices.SortStableFunc(reviews, func(a, b models.PastPerformance) int {
		return strings.Compare(b.Date, a.Date)
	})

	return reviews
}

// Projects generates project entries. Finished projects end one to six months after they start.
func Projects(gen Generator) []models.Project {
	projects := make([]models.Project, 0, projectCount)
	for i := range projectCount {
		start := time.Date(firstReviewYear+i, time.Month(IntBetween(gen, 1, 12)), IntBetween(gen, 1, 28),
			0, 0, 0, 0, time.UTC)
		inProgress := gen.Float64() > 0.5

		project := models.Project{
			ID:          fmt.Sprintf("proj-%d-%s", i, gen.ID()),
			Name:        fmt.Sprintf("Project Alpha %d", i+1),
			Status:      models.ProjectCompleted,
			Description: "This project aimed to deliver X and Y. Involving tasks A, B, C. Key learnings include Z.",
			StartDate:   start.Format(dateLayout),
		}

		if inProgress {
			project.Status = models.ProjectOnHold
			if gen.Float64() > 0.2 {
				project.Status = models.ProjectInProgress
			}
		} else {
			end := time.Date(start.Year(), start.Month()+time.Month(IntBetween(gen, 1, 6)), IntBetween(gen, 1, 28),
				0, 0, 0, 0, time.UTC)
			project.EndDate = end.Format(dateLayout)
		}

		projects = append(projects, project)
	}

	return projects
}

// Feedback generates alternating manager and peer feedback, newest first.
func Feedback(gen Generator) []models.Feedback {
	items := make([]models.Feedback, 0, feedbackCount)
	for i := range feedbackCount {
		from := "Manager"
		if i%2 != 0 {
			from = "Peer Colleague"
		}

		date := time.Date(feedbackYear, time.Month(IntBetween(gen, 1, 12)), IntBetween(gen, 1, 28), 0, 0, 0, 0, time.UTC)
		items = append(items, models.Feedback{
			ID:      fmt.Sprintf("fb-%d-%s", i, gen.ID()),
			Date:    date.Format(dateLayout),
			From:    from,
			Comment: fmt.Sprintf("Feedback item %d. Lorem ipsum dolor sit amet, consectetur adipiscing elit.", i+1),
			Type:    models.FeedbackTypes[gen.IntN(len(models.FeedbackTypes))],
		})
	}

	slices.SortStableFunc(items, func(a, b models.Feedback) int {
		return strings.Compare(b.Date, a.Date)
	})

	return items
}
