package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"msme-risk/domain"
	"msme-risk/metrics"
	"msme-risk/repository"
)

// SubmitInput is what the collector form posts.
type SubmitInput struct {
	Name      string
	Inputs    domain.RiskInputs
	Documents []domain.Document
}

type AssessmentService struct {
	scorer    *RiskScorer
	repo      repository.SubmissionRepository
	cache     repository.CacheRepository
	publisher repository.EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewAssessmentService wires the scorer to its collaborators.
func NewAssessmentService(
	repo repository.SubmissionRepository,
	cache repository.CacheRepository,
	publisher repository.EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AssessmentService {
	return &AssessmentService{
		scorer:    NewRiskScorer(),
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Score returns the risk result for inputs, consulting the cache first.
// Inputs are not validated.
func (s *AssessmentService) Score(ctx context.Context, inputs domain.RiskInputs) domain.RiskResult {
	key, ok := cacheKey(inputs)
	if ok {
		if cached, hit := s.cache.Get(ctx, key); hit {
			var result domain.RiskResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return result
			}
			s.logger.Warn("discarding unreadable cached score", slog.String("key", key))
		}
	}

	result := s.scorer.Score(inputs)

	if ok {
		if payload, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, string(payload)); err != nil {
				s.logger.Warn("failed to cache score", slog.String("error", err.Error()))
			}
		}
	}
	return result
}

// Submit validates, scores and stores a submission, then announces it.
func (s *AssessmentService) Submit(ctx context.Context, input SubmitInput) (domain.Submission, error) {
	if err := ValidateSubmission(input.Name, input.Inputs); err != nil {
		return domain.Submission{}, err
	}
	docs, err := normalizeDocuments(input.Documents)
	if err != nil {
		return domain.Submission{}, err
	}

	submission := domain.Submission{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Inputs:      input.Inputs,
		Result:      s.Score(ctx, input.Inputs),
		Documents:   docs,
		SubmittedAt: s.now(),
	}

	if err := s.repo.Save(ctx, submission); err != nil {
		return domain.Submission{}, fmt.Errorf("save submission: %w", err)
	}
	s.metrics.ObserveAssessment(submission.Result)

	s.logger.Info("submission scored",
		slog.String("submission_id", submission.ID.String()),
		slog.String("name", submission.Name),
		slog.Float64("score", submission.Result.DisplayScore()),
		slog.String("label", submission.Result.Label.String()),
		slog.Any("documents", submission.DocumentNames()),
	)

	if err := s.publisher.Publish(ctx, eventsFor(submission)...); err != nil {
		s.logger.Warn("failed to publish assessment events",
			slog.String("submission_id", submission.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return submission, nil
}

// List returns every stored submission, oldest first.
func (s *AssessmentService) List(ctx context.Context) ([]domain.Submission, error) {
	return s.repo.List(ctx)
}

func (s *AssessmentService) Get(ctx context.Context, id uuid.UUID) (domain.Submission, error) {
	return s.repo.FindByID(ctx, id)
}

// Document returns one uploaded document of a submission.
func (s *AssessmentService) Document(ctx context.Context, id uuid.UUID, name string) (domain.Document, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	doc, ok := submission.Document(name)
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", repository.ErrDocumentNotFound, name)
	}
	return doc, nil
}

func eventsFor(sub domain.Submission) []domain.Event {
	events := []domain.Event{
		domain.AssessmentCompleted{
			SubmissionID: sub.ID,
			Name:         sub.Name,
			Score:        sub.Result.Score,
			Label:        sub.Result.Label,
			Documents:    len(sub.Documents),
			SubmittedAt:  sub.SubmittedAt,
		},
	}
	if sub.Result.Label.Equal(domain.RiskLabelHigh) {
		events = append(events, domain.HighRiskDetected{
			SubmissionID: sub.ID,
			Name:         sub.Name,
			Score:        sub.Result.Score,
			DetectedAt:   sub.SubmittedAt,
		})
	}
	return events
}

// normalizeDocuments strips client paths from file names and rejects duplicates.
func normalizeDocuments(docs []domain.Document) ([]domain.Document, error) {
	if len(docs) > MaxDocuments {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "documents",
			Message: fmt.Sprintf("at most %d documents are allowed", MaxDocuments),
		}}}
	}

	out := make([]domain.Document, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	var fields []FieldError
	for _, d := range docs {
		name := filepath.Base(strings.ReplaceAll(d.Name, `\`, "/"))
		switch {
		case name == "." || name == "/" || name == "":
			fields = append(fields, FieldError{Field: "documents", Message: "document name is required"})
			continue
		case path.Clean("/"+name) != "/"+name:
			// the download route would be cleaned into a different path
			fields = append(fields, FieldError{Field: "documents", Message: "invalid document name " + strconv.Quote(name)})
			continue
		}
		if seen[name] {
			fields = append(fields, FieldError{Field: "documents", Message: "duplicate document name " + strconv.Quote(name)})
			continue
		}
		seen[name] = true
		d.Name = name
		d.Size = int64(len(d.Data))
		if d.ContentType == "" {
			d.ContentType = "application/octet-stream"
		}
		out = append(out, d)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return out, nil
}

// cacheKey fingerprints the inputs. Non-finite inputs cannot be encoded and are not cached.
func cacheKey(inputs domain.RiskInputs) (string, bool) {
	payload, err := json.Marshal(inputs)
	if err != nil {
		return "", false
	}
	return ScoreCacheKeyPrefix + strconv.FormatUint(xxhash.Sum64(payload), 16), true
}
