package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msme-risk/domain"
)

func newSubmission(name string) domain.Submission {
	return domain.Submission{
		ID:          uuid.New(),
		Name:        name,
		Inputs:      domain.DefaultRiskInputs(),
		Result:      domain.RiskResult{Score: 72, Label: domain.RiskLabelMedium},
		SubmittedAt: time.Now().UTC(),
	}
}

func TestSubmissionRepositoryMemory_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewSubmissionRepositoryMemory()

	first := newSubmission("Acme")
	second := newSubmission("Globex")
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", list[0].Name)
	assert.Equal(t, "Globex", list[1].Name)
}

func TestSubmissionRepositoryMemory_EmptyList(t *testing.T) {
	list, err := NewSubmissionRepositoryMemory().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSubmissionRepositoryMemory_DuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewSubmissionRepositoryMemory()
	s := newSubmission("Acme")

	require.NoError(t, repo.Save(ctx, s))
	require.Error(t, repo.Save(ctx, s))

	list, _ := repo.List(ctx)
	assert.Len(t, list, 1)
}

func TestSubmissionRepositoryMemory_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewSubmissionRepositoryMemory()
	s := newSubmission("Acme")
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Name, found.Name)

	_, err = repo.FindByID(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSubmissionNotFound))
}

func TestSubmissionRepositoryMemory_StoresCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSubmissionRepositoryMemory()
	s := newSubmission("Acme")
	s.Documents = []domain.Document{{Name: "gst.pdf", Data: []byte("original")}}
	require.NoError(t, repo.Save(ctx, s))

	s.Documents[0].Data[0] = 'X'
	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", string(found.Documents[0].Data))

	found.Documents[0].Data[0] = 'Y'
	again, _ := repo.FindByID(ctx, s.ID)
	assert.Equal(t, "original", string(again.Documents[0].Data))
}

func TestSubmissionRepositoryMemory_ConcurrentSave(t *testing.T) {
	ctx := context.Background()
	repo := NewSubmissionRepositoryMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Save(ctx, newSubmission("concurrent")))
		}()
	}
	wg.Wait()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
