package cache

import (
	"sync"
	"time"

	"github.com/mensahub/backend/internal/domain"
)

// SnapshotCache holds the currently published menu snapshot. The snapshot
// is replaced wholesale on each successful refresh; readers always get a
// complete snapshot, never a partially built one. Readers that obtained
// the previous snapshot keep a consistent (if stale) view.
type SnapshotCache struct {
	mutex   sync.RWMutex
	current *domain.Snapshot
}

// NewSnapshotCache creates a cache holding an empty snapshot, so readers
// before the first successful refresh see valid (empty) data.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		current: domain.EmptySnapshot(),
	}
}

// Read returns the currently published snapshot. The returned snapshot
// must be treated as read-only.
func (c *SnapshotCache) Read() *domain.Snapshot {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.current
}

// Swap atomically publishes a new snapshot.
func (c *SnapshotCache) Swap(snapshot *domain.Snapshot) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.current = snapshot
}

// Build materializes a snapshot by joining each normalized occurrence with
// its catalog entry (identity and score). It never touches the currently
// published snapshot.
func Build(menu domain.Menu, catalog map[string]*domain.Meal, refreshedAt time.Time) *domain.Snapshot {
	halls := make(map[string]map[string][]domain.MenuEntry, len(menu))

	for hall, dates := range menu {
		halls[hall] = make(map[string][]domain.MenuEntry, len(dates))
		for date, occurrences := range dates {
			entries := make([]domain.MenuEntry, 0, len(occurrences))
			for _, occ := range occurrences {
				entry := domain.MenuEntry{
					Description:       occ.Description,
					Category:          occ.Category,
					Marking:           occ.Marking,
					NutritionalValues: occ.NutritionalValues,
					Notes:             occ.Notes,
					PriceStudent:      occ.PriceStudent,
					PriceEmployee:     occ.PriceEmployee,
					PriceGuest:        occ.PriceGuest,
					PriceStudentCard:  occ.PriceStudentCard,
					PriceEmployeeCard: occ.PriceEmployeeCard,
					PriceGuestCard:    occ.PriceGuestCard,
					CO2Value:          occ.CO2Value,
					CO2Rating:         occ.CO2Rating,
					CO2Savings:        occ.CO2Savings,
					WaterValue:        occ.WaterValue,
					WaterRating:       occ.WaterRating,
					AnimalWelfare:     occ.AnimalWelfare,
					Rainforest:        occ.Rainforest,
				}
				if meal, ok := catalog[occ.Description]; ok {
					entry.MealID = meal.ID
					entry.Score = meal.Score
				}
				entries = append(entries, entry)
			}
			halls[hall][date] = entries
		}
	}

	return &domain.Snapshot{
		Halls:       halls,
		HallNames:   domain.SortedHallNames(halls),
		Dates:       domain.SortedDates(halls),
		RefreshedAt: refreshedAt,
	}
}
