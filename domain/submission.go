package domain

import (
	"time"

	"github.com/google/uuid"
)

// Document is a supporting file uploaded with a submission.
type Document struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Submission is one scored MSME as listed on the dashboard.
type Submission struct {
	ID          uuid.UUID
	Name        string
	Inputs      RiskInputs
	Result      RiskResult
	Documents   []Document
	SubmittedAt time.Time
}

// Document returns the attached document with the given name.
func (s Submission) Document(name string) (Document, bool) {
	for _, d := range s.Documents {
		if d.Name == name {
			return d, true
		}
	}
	return Document{}, false
}

// DocumentNames lists the attached documents in upload order.
func (s Submission) DocumentNames() []string {
	names := make([]string, 0, len(s.Documents))
	for _, d := range s.Documents {
		names = append(names, d.Name)
	}
	return names
}
