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

// PathwayRepository manages persistence for program pathways.
type PathwayRepository struct {
	db *sqlx.DB
}

// NewPathwayRepository constructs a PathwayRepository.
func NewPathwayRepository(db *sqlx.DB) *PathwayRepository {
	return &PathwayRepository{db: db}
}

// List returns pathways matching the provided filters.
func (r *PathwayRepository) List(ctx context.Context, filter models.PathwayFilter) ([]models.Pathway, int, error) {
	base := "FROM pathways WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"name": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf("SELECT id, name, required_courses, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var pathways []models.Pathway
	if err := r.db.SelectContext(ctx, &pathways, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list pathways: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count pathways: %w", err)
	}
	return pathways, total, nil
}

// ListAll returns every pathway, used by analysis runs.
func (r *PathwayRepository) ListAll(ctx context.Context) ([]models.Pathway, error) {
	const query = `SELECT id, name, required_courses, created_at, updated_at FROM pathways ORDER BY name, id`
	var pathways []models.Pathway
	if err := r.db.SelectContext(ctx, &pathways, query); err != nil {
		return nil, fmt.Errorf("list all pathways: %w", err)
	}
	return pathways, nil
}

// FindByID fetches a pathway by ID.
func (r *PathwayRepository) FindByID(ctx context.Context, id string) (*models.Pathway, error) {
	const query = `SELECT id, name, required_courses, created_at, updated_at FROM pathways WHERE id = $1`
	var pathway models.Pathway
	if err := r.db.GetContext(ctx, &pathway, query, id); err != nil {
		return nil, err
	}
	return &pathway, nil
}

// Create inserts a new pathway.
func (r *PathwayRepository) Create(ctx context.Context, pathway *models.Pathway) error {
	if pathway.ID == "" {
		pathway.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pathway.CreatedAt.IsZero() {
		pathway.CreatedAt = now
	}
	pathway.UpdatedAt = now
	const query = `INSERT INTO pathways (id, name, required_courses, created_at, updated_at)
        VALUES (:id, :name, :required_courses, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pathway); err != nil {
		return fmt.Errorf("create pathway: %w", err)
	}
	return nil
}

// Update modifies an existing pathway.
func (r *PathwayRepository) Update(ctx context.Context, pathway *models.Pathway) error {
	pathway.UpdatedAt = time.Now().UTC()
	const query = `UPDATE pathways SET name = :name, required_courses = :required_courses, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, pathway); err != nil {
		return fmt.Errorf("update pathway: %w", err)
	}
	return nil
}

// Delete removes a pathway.
func (r *PathwayRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM pathways WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete pathway: %w", err)
	}
	return nil
}
