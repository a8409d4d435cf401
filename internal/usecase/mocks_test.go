package usecase

import (
	"context"
	"strconv"
	"sync"

	"github.com/mensahub/backend/internal/domain"
)

// mockMealRepository is an in-memory domain.MealRepository with
// transaction rollback semantics, shared by the usecase tests.
type mockMealRepository struct {
	mu     sync.Mutex
	meals  map[string]*domain.Meal
	occs   map[string]*domain.MealOccurrence
	nextID int64

	failGet    error
	failCreate error
	failUpsert error
	failList   error
	failScore  error
}

func newMockMealRepository() *mockMealRepository {
	return &mockMealRepository{
		meals: map[string]*domain.Meal{},
		occs:  map[string]*domain.MealOccurrence{},
	}
}

func (m *mockMealRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	savedMeals := map[string]*domain.Meal{}
	for k, v := range m.meals {
		copied := *v
		savedMeals[k] = &copied
	}
	savedOccs := map[string]*domain.MealOccurrence{}
	for k, v := range m.occs {
		copied := *v
		savedOccs[k] = &copied
	}
	savedNextID := m.nextID
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		// Roll back every write of the transaction.
		m.mu.Lock()
		m.meals = savedMeals
		m.occs = savedOccs
		m.nextID = savedNextID
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *mockMealRepository) GetMealByDescription(ctx context.Context, description string) (*domain.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	meal, ok := m.meals[description]
	if !ok {
		return nil, domain.ErrMealNotFound
	}
	copied := *meal
	return &copied, nil
}

func (m *mockMealRepository) CreateMeal(ctx context.Context, meal *domain.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	m.nextID++
	meal.ID = m.nextID
	copied := *meal
	m.meals[meal.Description] = &copied
	return nil
}

func (m *mockMealRepository) UpsertOccurrence(ctx context.Context, occ *domain.MealOccurrence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert != nil {
		return m.failUpsert
	}
	key := occ.HallName + "|" + occ.Date.Format(domain.DateLayout) + "|" + strconv.FormatInt(occ.MealID, 10)
	copied := *occ
	m.occs[key] = &copied
	return nil
}

func (m *mockMealRepository) ListMealsByDescriptions(ctx context.Context, descriptions []string) (map[string]*domain.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	result := map[string]*domain.Meal{}
	for _, desc := range descriptions {
		if meal, ok := m.meals[desc]; ok {
			copied := *meal
			result[desc] = &copied
		}
	}
	return result, nil
}

func (m *mockMealRepository) ListUnscoredMeals(ctx context.Context) ([]*domain.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	var unscored []*domain.Meal
	for _, meal := range m.meals {
		if meal.Score == nil {
			copied := *meal
			unscored = append(unscored, &copied)
		}
	}
	return unscored, nil
}

func (m *mockMealRepository) SetMealScore(ctx context.Context, mealID int64, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failScore != nil {
		return m.failScore
	}
	for _, meal := range m.meals {
		if meal.ID == mealID {
			meal.Score = &score
			return nil
		}
	}
	return domain.ErrMealNotFound
}

func (m *mockMealRepository) mealCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.meals)
}

func (m *mockMealRepository) occurrenceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.occs)
}

func (m *mockMealRepository) scoreOf(description string) *float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meal, ok := m.meals[description]; ok {
		return meal.Score
	}
	return nil
}

// mockFetcher returns canned bytes or an error; an optional gate blocks
// Fetch until released, for single-flight tests.
type mockFetcher struct {
	data []byte
	err  error
	gate chan struct{}
}

func (f *mockFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if f.gate != nil {
		<-f.gate
	}
	return f.data, f.err
}

// mockParser returns canned records or an error.
type mockParser struct {
	records []domain.RawRecord
	err     error
}

func (p *mockParser) Parse(data []byte) ([]domain.RawRecord, error) {
	return p.records, p.err
}

// mockScorer rates descriptions from a canned table.
type mockScorer struct {
	mu     sync.Mutex
	scores map[string]float64
	errs   map[string]error
	calls  []string
}

func (s *mockScorer) ScoreMeal(ctx context.Context, description string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, description)
	if err, ok := s.errs[description]; ok {
		return 0, err
	}
	return s.scores[description], nil
}
