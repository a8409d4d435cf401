package usecase

import (
	"context"
	"log"

	"github.com/mensahub/backend/internal/domain"
)

// EnrichmentService computes affinity scores for catalog entries that have
// none yet. Each score is committed on its own, so a failure partway
// through never loses earlier progress; failed entries stay unscored and
// are picked up by the next pass. It runs independently of the refresh
// cycle and is safe to interleave with it: a meal created mid-pass is
// simply deferred to the next one.
type EnrichmentService struct {
	repo   domain.MealRepository
	scorer domain.MealScorer
}

// NewEnrichmentService creates an enrichment service.
func NewEnrichmentService(repo domain.MealRepository, scorer domain.MealScorer) *EnrichmentService {
	return &EnrichmentService{repo: repo, scorer: scorer}
}

// EnrichPending scores every catalog entry without a score. Scoring
// failures are counted, never raised; only a store failure listing the
// pending entries aborts the pass.
func (s *EnrichmentService) EnrichPending(ctx context.Context) (*domain.EnrichmentReport, error) {
	meals, err := s.repo.ListUnscoredMeals(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.EnrichmentReport{}
	if len(meals) == 0 {
		log.Printf("[Enrichment] No meals missing scores")
		return report, nil
	}

	log.Printf("[Enrichment] Scoring %d meals", len(meals))
	for _, meal := range meals {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		report.Attempted++
		score, err := s.scorer.ScoreMeal(ctx, meal.Description)
		if err != nil {
			log.Printf("[Enrichment] Failed to score %q: %v", meal.Description, err)
			report.Failed++
			continue
		}

		if err := s.repo.SetMealScore(ctx, meal.ID, score); err != nil {
			log.Printf("[Enrichment] Failed to persist score for %q: %v", meal.Description, err)
			report.Failed++
			continue
		}
		report.Succeeded++
	}

	log.Printf("[Enrichment] Pass finished: %d attempted, %d succeeded, %d failed",
		report.Attempted, report.Succeeded, report.Failed)
	return report, nil
}
