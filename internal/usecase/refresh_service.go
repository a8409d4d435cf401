package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mensahub/backend/internal/domain"
	"github.com/mensahub/backend/internal/infrastructure/cache"
)

// RefreshService drives one refresh cycle: fetch -> parse -> normalize ->
// sync -> snapshot swap. Cycles are single-flighted: a trigger while a
// cycle is running is rejected with ErrRefreshInProgress rather than
// queued, so the catalog never has two concurrent refresh writers. A
// failed cycle leaves the previously published snapshot untouched.
type RefreshService struct {
	fetcher domain.FeedFetcher
	parser  domain.FeedParser
	repo    domain.MealRepository
	cache   *cache.SnapshotCache
	syncer  *SyncService

	mutex       sync.Mutex
	inFlight    bool
	lastRefresh time.Time
	lastErr     error
}

// NewRefreshService creates a refresh orchestrator with its dependencies.
func NewRefreshService(
	fetcher domain.FeedFetcher,
	parser domain.FeedParser,
	repo domain.MealRepository,
	snapshots *cache.SnapshotCache,
) *RefreshService {
	return &RefreshService{
		fetcher: fetcher,
		parser:  parser,
		repo:    repo,
		cache:   snapshots,
		syncer:  NewSyncService(repo),
	}
}

// TriggerRefresh runs one refresh cycle. It returns ErrRefreshInProgress
// if a cycle is already running; cycle failures are reported inside the
// outcome, not as an error, since the previous snapshot keeps serving.
func (s *RefreshService) TriggerRefresh(ctx context.Context) (*domain.RefreshOutcome, error) {
	s.mutex.Lock()
	if s.inFlight {
		s.mutex.Unlock()
		return nil, domain.ErrRefreshInProgress
	}
	s.inFlight = true
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.inFlight = false
		s.mutex.Unlock()
	}()

	start := time.Now()
	log.Printf("[Refresh] Starting refresh cycle")

	result, err := s.runCycle(ctx)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err != nil {
		s.lastErr = err
		log.Printf("[Refresh] Cycle failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return &domain.RefreshOutcome{
			Success:  false,
			Detail:   err.Error(),
			Duration: time.Since(start),
		}, nil
	}

	s.lastRefresh = time.Now()
	s.lastErr = nil
	log.Printf("[Refresh] Cycle completed in %s: %d new meals, %d occurrences",
		time.Since(start).Round(time.Millisecond), result.MealsCreated, result.OccurrencesWritten)
	return &domain.RefreshOutcome{
		Success:            true,
		Detail:             "refresh completed",
		MealsCreated:       result.MealsCreated,
		OccurrencesWritten: result.OccurrencesWritten,
		Duration:           time.Since(start),
	}, nil
}

func (s *RefreshService) runCycle(ctx context.Context) (*domain.SyncResult, error) {
	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	records, err := s.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	menu := Normalize(records)
	if len(menu) == 0 {
		return nil, fmt.Errorf("%w: feed contained no usable records", domain.ErrMalformedFeed)
	}

	result, err := s.syncer.Sync(ctx, menu)
	if err != nil {
		return nil, fmt.Errorf("sync: %w", err)
	}

	catalog, err := s.repo.ListMealsByDescriptions(ctx, menuDescriptions(menu))
	if err != nil {
		return nil, fmt.Errorf("load catalog for snapshot: %w", err)
	}

	s.cache.Swap(cache.Build(menu, catalog, time.Now()))
	return result, nil
}

// LastRefreshTime returns when the last successful cycle finished, or the
// zero time if none has.
func (s *RefreshService) LastRefreshTime() time.Time {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastRefresh
}

// LastError returns the error of the most recent cycle, nil after a
// successful one.
func (s *RefreshService) LastError() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastErr
}

// InFlight reports whether a refresh cycle is currently running.
func (s *RefreshService) InFlight() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.inFlight
}

func menuDescriptions(menu domain.Menu) []string {
	seen := map[string]bool{}
	var descriptions []string
	for _, dates := range menu {
		for _, occurrences := range dates {
			for _, occ := range occurrences {
				if seen[occ.Description] {
					continue
				}
				seen[occ.Description] = true
				descriptions = append(descriptions, occ.Description)
			}
		}
	}
	return descriptions
}
