package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"msme-risk/domain"
)

// SubmissionRepositoryMemory is an in-memory implementation of SubmissionRepository.
// Entries are kept in insertion order and never modified or removed.
type SubmissionRepositoryMemory struct {
	mu    sync.RWMutex
	data  []domain.Submission
	index map[uuid.UUID]int
}

// NewSubmissionRepositoryMemory creates a new in-memory submission repository.
func NewSubmissionRepositoryMemory() *SubmissionRepositoryMemory {
	return &SubmissionRepositoryMemory{
		data:  []domain.Submission{},
		index: make(map[uuid.UUID]int),
	}
}

// Save appends the submission. Saving an ID twice is an error.
func (r *SubmissionRepositoryMemory) Save(
	_ context.Context,
	submission domain.Submission,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[submission.ID]; exists {
		return fmt.Errorf("submission %s already stored", submission.ID)
	}
	r.index[submission.ID] = len(r.data)
	r.data = append(r.data, cloneSubmission(submission))
	return nil
}

// List returns all submissions, oldest first.
func (r *SubmissionRepositoryMemory) List(_ context.Context) ([]domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Submission, 0, len(r.data))
	for _, s := range r.data {
		out = append(out, cloneSubmission(s))
	}
	return out, nil
}

func (r *SubmissionRepositoryMemory) FindByID(
	_ context.Context,
	id uuid.UUID,
) (domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return domain.Submission{}, fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
	}
	return cloneSubmission(r.data[i]), nil
}

func cloneSubmission(s domain.Submission) domain.Submission {
	if s.Documents == nil {
		return s
	}
	docs := make([]domain.Document, len(s.Documents))
	for i, d := range s.Documents {
		d.Data = append([]byte(nil), d.Data...)
		docs[i] = d
	}
	s.Documents = docs
	return s
}
