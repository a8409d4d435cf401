package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mensahub/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichPending_ScoresUnscoredMeals(t *testing.T) {
	repo := newMockMealRepository()
	require.NoError(t, repo.CreateMeal(context.Background(), &domain.Meal{Description: "Spaghetti Bolognese"}))
	require.NoError(t, repo.CreateMeal(context.Background(), &domain.Meal{Description: "Linsensuppe"}))

	scorer := &mockScorer{scores: map[string]float64{
		"Spaghetti Bolognese": 73,
		"Linsensuppe":         12,
	}}
	service := NewEnrichmentService(repo, scorer)

	report, err := service.EnrichPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, report.Failed)

	score := repo.scoreOf("Spaghetti Bolognese")
	require.NotNil(t, score)
	assert.Equal(t, 73.0, *score)
}

func TestEnrichPending_SkipsAlreadyScoredMeals(t *testing.T) {
	repo := newMockMealRepository()
	existing := 55.0
	require.NoError(t, repo.CreateMeal(context.Background(), &domain.Meal{Description: "Currywurst"}))
	require.NoError(t, repo.SetMealScore(context.Background(), 1, existing))
	require.NoError(t, repo.CreateMeal(context.Background(), &domain.Meal{Description: "Salat"}))

	scorer := &mockScorer{scores: map[string]float64{"Salat": 5}}
	service := NewEnrichmentService(repo, scorer)

	report, err := service.EnrichPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Attempted)
	assert.Equal(t, []string{"Salat"}, scorer.calls)
}

func TestEnrichPending_FailedMealsStayUnscored(t *testing.T) {
	repo := newMockMealRepository()
	require.NoError(t, repo.CreateMeal(context.Background(), &domain.Meal{Description: "Suppe"}))
	require.NoError(t, repo.CreateMeal(context.Background(), &domain.Meal{Description: "Salat"}))

	// A scorer exhausting its retries reports a transient error; the pass
	// must absorb it, not raise it.
	scorer := &mockScorer{
		scores: map[string]float64{"Salat": 40},
		errs:   map[string]error{"Suppe": domain.ErrScoringTransient},
	}
	service := NewEnrichmentService(repo, scorer)

	report, err := service.EnrichPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Nil(t, repo.scoreOf("Suppe"))
	assert.NotNil(t, repo.scoreOf("Salat"))
}

func TestEnrichPending_PersistFailureCountsAsFailed(t *testing.T) {
	repo := newMockMealRepository()
	require.NoError(t, repo.CreateMeal(context.Background(), &domain.Meal{Description: "Suppe"}))
	repo.failScore = errors.New("connection lost")

	scorer := &mockScorer{scores: map[string]float64{"Suppe": 30}}
	service := NewEnrichmentService(repo, scorer)

	report, err := service.EnrichPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
}

func TestEnrichPending_NothingToDo(t *testing.T) {
	repo := newMockMealRepository()
	scorer := &mockScorer{}
	service := NewEnrichmentService(repo, scorer)

	report, err := service.EnrichPending(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.Attempted)
	assert.Empty(t, scorer.calls)
}

func TestEnrichPending_ListFailureAbortsPass(t *testing.T) {
	repo := newMockMealRepository()
	repo.failList = errors.New("connection lost")
	service := NewEnrichmentService(repo, &mockScorer{})

	report, err := service.EnrichPending(context.Background())

	assert.Nil(t, report)
	assert.Error(t, err)
}

func TestEnrichPending_StopsOnCancelledContext(t *testing.T) {
	repo := newMockMealRepository()
	require.NoError(t, repo.CreateMeal(context.Background(), &domain.Meal{Description: "Suppe"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := NewEnrichmentService(repo, &mockScorer{})
	report, err := service.EnrichPending(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Attempted)
}
