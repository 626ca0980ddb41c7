package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

// ScenarioRepository manages persistence for schedule scenarios.
type ScenarioRepository struct {
	db *sqlx.DB
}

// NewScenarioRepository constructs a ScenarioRepository.
func NewScenarioRepository(db *sqlx.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// List returns scenarios matching the provided filters.
func (r *ScenarioRepository) List(ctx context.Context, filter models.ScenarioFilter) ([]models.Scenario, int, error) {
	base := "FROM scenarios WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TermLabel != "" {
		conditions = append(conditions, fmt.Sprintf("term_label = $%d", len(args)+1))
		args = append(args, filter.TermLabel)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"name": true, "term_label": true, "created_at": true, "updated_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, name, term_label, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var scenarios []models.Scenario
	if err := r.db.SelectContext(ctx, &scenarios, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list scenarios: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count scenarios: %w", err)
	}
	return scenarios, total, nil
}

// FindByID fetches a scenario by ID.
func (r *ScenarioRepository) FindByID(ctx context.Context, id string) (*models.Scenario, error) {
	const query = `SELECT id, name, term_label, created_at, updated_at FROM scenarios WHERE id = $1`
	var scenario models.Scenario
	if err := r.db.GetContext(ctx, &scenario, query, id); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Create inserts a new scenario.
func (r *ScenarioRepository) Create(ctx context.Context, scenario *models.Scenario) error {
	if scenario.ID == "" {
		scenario.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if scenario.CreatedAt.IsZero() {
		scenario.CreatedAt = now
	}
	scenario.UpdatedAt = now
	const query = `INSERT INTO scenarios (id, name, term_label, created_at, updated_at)
        VALUES (:id, :name, :term_label, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, scenario); err != nil {
		return fmt.Errorf("create scenario: %w", err)
	}
	return nil
}

// Update modifies an existing scenario.
func (r *ScenarioRepository) Update(ctx context.Context, scenario *models.Scenario) error {
	scenario.UpdatedAt = time.Now().UTC()
	const query = `UPDATE scenarios SET name = :name, term_label = :term_label, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, scenario); err != nil {
		return fmt.Errorf("update scenario: %w", err)
	}
	return nil
}

// Delete removes a scenario and, via cascading constraints, its sections.
func (r *ScenarioRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM scenarios WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	return nil
}
