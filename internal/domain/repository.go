package domain

import "context"

// FeedFetcher retrieves the raw bytes of the configured menu feed.
// It makes a single attempt; repeating failed cycles is the scheduler's job.
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FeedParser turns raw feed bytes into records, recovering from
// truncated or malformed markup where possible.
type FeedParser interface {
	Parse(data []byte) ([]RawRecord, error)
}

// MealRepository defines the interface for the persistent meal catalog.
type MealRepository interface {
	// WithTx runs fn inside a transaction; any error rolls back every write.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetMealByDescription(ctx context.Context, description string) (*Meal, error)
	CreateMeal(ctx context.Context, meal *Meal) error
	UpsertOccurrence(ctx context.Context, occ *MealOccurrence) error
	ListMealsByDescriptions(ctx context.Context, descriptions []string) (map[string]*Meal, error)

	ListUnscoredMeals(ctx context.Context) ([]*Meal, error)
	SetMealScore(ctx context.Context, mealID int64, score float64) error
}

// MealScorer rates a meal description on a 0-100 scale via an external service.
type MealScorer interface {
	ScoreMeal(ctx context.Context, description string) (float64, error)
}
