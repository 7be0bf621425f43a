package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAssessmentCompleted = "risk.assessment.completed"
	EventTypeHighRiskDetected    = "risk.high_risk.detected"
)

// Event is published after a submission has been scored and stored.
type Event interface {
	EventType() string
	AggregateID() uuid.UUID
}

type AssessmentCompleted struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Name         string    `json:"name"`
	Score        float64   `json:"score"`
	Label        RiskLabel `json:"label"`
	Documents    int       `json:"documents"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

func (e AssessmentCompleted) EventType() string {
	return EventTypeAssessmentCompleted
}

func (e AssessmentCompleted) AggregateID() uuid.UUID {
	return e.SubmissionID
}

// HighRiskDetected accompanies AssessmentCompleted when the label is High.
type HighRiskDetected struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Name         string    `json:"name"`
	Score        float64   `json:"score"`
	DetectedAt   time.Time `json:"detected_at"`
}

func (e HighRiskDetected) EventType() string {
	return EventTypeHighRiskDetected
}

func (e HighRiskDetected) AggregateID() uuid.UUID {
	return e.SubmissionID
}
