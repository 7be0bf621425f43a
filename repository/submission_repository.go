package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"msme-risk/domain"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrDocumentNotFound   = errors.New("document not found")
)

// SubmissionRepository is the dashboard's append-only list of scored MSMEs.
type SubmissionRepository interface {
	Save(ctx context.Context, submission domain.Submission) error
	List(ctx context.Context) ([]domain.Submission, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Submission, error)
}
