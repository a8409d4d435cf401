package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mensahub/backend/internal/domain"
)

const mealColumns = `id, description, category, marking, nutritional_values,
		co2_value, co2_rating, co2_savings, water_value, water_rating,
		animal_welfare, rainforest, score`

func scanMeal(row pgx.Row) (*domain.Meal, error) {
	meal := &domain.Meal{}
	err := row.Scan(
		&meal.ID, &meal.Description, &meal.Category, &meal.Marking, &meal.NutritionalValues,
		&meal.CO2Value, &meal.CO2Rating, &meal.CO2Savings, &meal.WaterValue, &meal.WaterRating,
		&meal.AnimalWelfare, &meal.Rainforest, &meal.Score)
	if err != nil {
		return nil, err
	}
	return meal, nil
}

// GetMealByDescription looks up a catalog entry by its exact description.
func (s *Store) GetMealByDescription(ctx context.Context, description string) (*domain.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE description = $1`

	meal, err := scanMeal(s.conn(ctx).QueryRow(ctx, query, description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMealNotFound
		}
		return nil, fmt.Errorf("get meal by description: %w", err)
	}
	return meal, nil
}

// CreateMeal inserts a new catalog entry and fills in its generated ID.
func (s *Store) CreateMeal(ctx context.Context, meal *domain.Meal) error {
	query := `
		INSERT INTO meals (description, category, marking, nutritional_values,
			co2_value, co2_rating, co2_savings, water_value, water_rating,
			animal_welfare, rainforest)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := s.conn(ctx).QueryRow(ctx, query,
		meal.Description, meal.Category, meal.Marking, meal.NutritionalValues,
		meal.CO2Value, meal.CO2Rating, meal.CO2Savings, meal.WaterValue, meal.WaterRating,
		meal.AnimalWelfare, meal.Rainforest).Scan(&meal.ID)
	if err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return nil
}

// UpsertOccurrence writes the occurrence row for (meal, hall, date). The feed
// is authoritative for current values, so an existing row has its prices and
// notes overwritten.
func (s *Store) UpsertOccurrence(ctx context.Context, occ *domain.MealOccurrence) error {
	query := `
		INSERT INTO meal_occurrences (meal_id, hall_name, date,
			price_student, price_employee, price_guest,
			price_student_card, price_employee_card, price_guest_card, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (meal_id, hall_name, date) DO UPDATE SET
			price_student = EXCLUDED.price_student,
			price_employee = EXCLUDED.price_employee,
			price_guest = EXCLUDED.price_guest,
			price_student_card = EXCLUDED.price_student_card,
			price_employee_card = EXCLUDED.price_employee_card,
			price_guest_card = EXCLUDED.price_guest_card,
			notes = EXCLUDED.notes`

	_, err := s.conn(ctx).Exec(ctx, query,
		occ.MealID, occ.HallName, occ.Date,
		occ.PriceStudent, occ.PriceEmployee, occ.PriceGuest,
		occ.PriceStudentCard, occ.PriceEmployeeCard, occ.PriceGuestCard, occ.Notes)
	if err != nil {
		return fmt.Errorf("upsert occurrence: %w", err)
	}
	return nil
}

// ListMealsByDescriptions returns the catalog entries for the given
// descriptions, keyed by description. Descriptions without a catalog entry
// are simply absent from the result.
func (s *Store) ListMealsByDescriptions(ctx context.Context, descriptions []string) (map[string]*domain.Meal, error) {
	if len(descriptions) == 0 {
		return map[string]*domain.Meal{}, nil
	}

	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE description = ANY($1)`

	rows, err := s.conn(ctx).Query(ctx, query, descriptions)
	if err != nil {
		return nil, fmt.Errorf("list meals by descriptions: %w", err)
	}
	defer rows.Close()

	meals := map[string]*domain.Meal{}
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals[meal.Description] = meal
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list meals by descriptions: %w", err)
	}
	return meals, nil
}

// ListUnscoredMeals returns every catalog entry without an affinity score,
// oldest first.
func (s *Store) ListUnscoredMeals(ctx context.Context) ([]*domain.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE score IS NULL
		ORDER BY id`

	rows, err := s.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list unscored meals: %w", err)
	}
	defer rows.Close()

	var meals []*domain.Meal
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unscored meals: %w", err)
	}
	return meals, nil
}

// SetMealScore persists the affinity score for one meal.
func (s *Store) SetMealScore(ctx context.Context, mealID int64, score float64) error {
	query := `UPDATE meals SET score = $1 WHERE id = $2`

	tag, err := s.conn(ctx).Exec(ctx, query, score, mealID)
	if err != nil {
		return fmt.Errorf("set meal score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMealNotFound
	}
	return nil
}
