package models

// PastPerformance is one generated review entry.
type PastPerformance struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

type ProjectStatus string

const (
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectOnHold     ProjectStatus = "On Hold"
	ProjectCancelled  ProjectStatus = "Cancelled"
)

// Project is one generated project entry. EndDate is empty while the project is in progress or on hold.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	Description string        `json:"description"`
	StartDate   string        `json:"startDate"`
	EndDate     string        `json:"endDate,omitempty"`
}

type FeedbackType string

const (
	FeedbackPositive     FeedbackType = "Positive"
	FeedbackConstructive FeedbackType = "Constructive"
	FeedbackNeutral      FeedbackType = "Neutral"
)

// FeedbackTypes lists the feedback kinds in a stable order.
var FeedbackTypes = []FeedbackType{FeedbackPositive, FeedbackConstructive, FeedbackNeutral}

// Feedback is one generated feedback entry.
type Feedback struct {
	ID      string       `json:"id"`
	Date    string       `json:"date"`
	From    string       `json:"from"`
	Comment string       `json:"comment"`
	Type    FeedbackType `json:"type"`
}

// RatingLabel maps a performance rating to its human readable grade.
func RatingLabel(rating float64) string {
	switch {
	case rating >= 4.5:
		return "Excellent"
	case rating >= 4:
		return "Great"
	case rating >= 3.5:
		return "Good"
	case rating >= 3:
		return "Satisfactory"
	case rating >= 2:
		return "Needs Improvement"
	default:
		return "Unsatisfactory"
	}
}
