package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mensahub/backend/internal/domain"
)

// SyncService reconciles a normalized menu against the persistent meal
// catalog: meals are inserted on first encounter (the catalog is
// append-only), occurrences are upserted on (meal, hall, date).
type SyncService struct {
	repo domain.MealRepository
}

// NewSyncService creates a catalog sync service.
func NewSyncService(repo domain.MealRepository) *SyncService {
	return &SyncService{repo: repo}
}

// Sync writes one refresh cycle's menu to the catalog inside a single
// transaction; any store error rolls back the whole cycle. Per-row issues
// (an unparseable date) are logged and skipped, they do not trigger the
// rollback.
func (s *SyncService) Sync(ctx context.Context, menu domain.Menu) (*domain.SyncResult, error) {
	result := &domain.SyncResult{}

	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		for hall, dates := range menu {
			for dateStr, occurrences := range dates {
				date, err := time.Parse(domain.DateLayout, dateStr)
				if err != nil {
					log.Printf("[CatalogSync] Skipping invalid date %q at %s", dateStr, hall)
					continue
				}

				for _, occ := range occurrences {
					meal, err := s.findOrCreateMeal(ctx, occ, result)
					if err != nil {
						return err
					}

					if err := s.repo.UpsertOccurrence(ctx, &domain.MealOccurrence{
						MealID:            meal.ID,
						HallName:          hall,
						Date:              date,
						PriceStudent:      occ.PriceStudent,
						PriceEmployee:     occ.PriceEmployee,
						PriceGuest:        occ.PriceGuest,
						PriceStudentCard:  occ.PriceStudentCard,
						PriceEmployeeCard: occ.PriceEmployeeCard,
						PriceGuestCard:    occ.PriceGuestCard,
						Notes:             occ.Notes,
					}); err != nil {
						return fmt.Errorf("occurrence for %q at %s on %s: %w", occ.Description, hall, dateStr, err)
					}
					result.OccurrencesWritten++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CatalogSync] Synced %d new meals, %d occurrences", result.MealsCreated, result.OccurrencesWritten)
	return result, nil
}

func (s *SyncService) findOrCreateMeal(ctx context.Context, occ domain.NormalizedOccurrence, result *domain.SyncResult) (*domain.Meal, error) {
	meal, err := s.repo.GetMealByDescription(ctx, occ.Description)
	if err == nil {
		return meal, nil
	}
	if !errors.Is(err, domain.ErrMealNotFound) {
		return nil, fmt.Errorf("lookup meal %q: %w", occ.Description, err)
	}

	meal = &domain.Meal{
		Description:       occ.Description,
		Category:          occ.Category,
		Marking:           occ.Marking,
		NutritionalValues: occ.NutritionalValues,
		CO2Value:          occ.CO2Value,
		CO2Rating:         occ.CO2Rating,
		CO2Savings:        occ.CO2Savings,
		WaterValue:        occ.WaterValue,
		WaterRating:       occ.WaterRating,
		AnimalWelfare:     occ.AnimalWelfare,
		Rainforest:        occ.Rainforest,
	}
	if err := s.repo.CreateMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("create meal %q: %w", occ.Description, err)
	}
	result.MealsCreated++
	return meal, nil
}
