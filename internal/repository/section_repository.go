package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

// SectionRepository manages persistence for sections and their meeting
// occurrences. Meetings live in a child table and are loaded in a second
// query keyed by section id.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a SectionRepository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns sections matching the provided filters, meetings included.
func (r *SectionRepository) List(ctx context.Context, filter models.SectionFilter) ([]models.Section, int, error) {
	base := "FROM sections WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ScenarioID != "" {
		conditions = append(conditions, fmt.Sprintf("scenario_id = $%d", len(args)+1))
		args = append(args, filter.ScenarioID)
	}
	if filter.CourseCode != "" {
		conditions = append(conditions, fmt.Sprintf("course_code = $%d", len(args)+1))
		args = append(args, filter.CourseCode)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"course_code": true, "title": true, "created_at": true, "updated_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "course_code"
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
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, scenario_id, course_code, title, label, kind, modality, instructor_id, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sections: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sections: %w", err)
	}

	if err := r.attachMeetings(ctx, sections); err != nil {
		return nil, 0, err
	}
	return sections, total, nil
}

// ListByScenario returns every section of a scenario with meetings loaded,
// ordered by course code then label for deterministic snapshots.
func (r *SectionRepository) ListByScenario(ctx context.Context, scenarioID string) ([]models.Section, error) {
	const query = `SELECT id, scenario_id, course_code, title, label, kind, modality, instructor_id, created_at, updated_at
        FROM sections WHERE scenario_id = $1 ORDER BY course_code, label, id`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, scenarioID); err != nil {
		return nil, fmt.Errorf("list scenario sections: %w", err)
	}
	if err := r.attachMeetings(ctx, sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// FindByID fetches a single section with meetings.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.Section, error) {
	const query = `SELECT id, scenario_id, course_code, title, label, kind, modality, instructor_id, created_at, updated_at FROM sections WHERE id = $1`
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	sections := []models.Section{section}
	if err := r.attachMeetings(ctx, sections); err != nil {
		return nil, err
	}
	return &sections[0], nil
}

// Create inserts a section together with its meeting occurrences.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if section.CreatedAt.IsZero() {
		section.CreatedAt = now
	}
	section.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create section: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO sections (id, scenario_id, course_code, title, label, kind, modality, instructor_id, created_at, updated_at)
        VALUES (:id, :scenario_id, :course_code, :title, :label, :kind, :modality, :instructor_id, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	if err := insertMeetings(ctx, tx, section.ID, section.Meetings); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create section: %w", err)
	}
	return nil
}

// Update modifies a section. When replaceMeetings is true the meeting set is
// replaced wholesale with section.Meetings.
func (r *SectionRepository) Update(ctx context.Context, section *models.Section, replaceMeetings bool) error {
	section.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update section: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `UPDATE sections SET course_code = :course_code, title = :title, label = :label, kind = :kind, modality = :modality, instructor_id = :instructor_id, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	if replaceMeetings {
		if _, err := tx.ExecContext(ctx, `DELETE FROM section_meetings WHERE section_id = $1`, section.ID); err != nil {
			return fmt.Errorf("clear section meetings: %w", err)
		}
		if err := insertMeetings(ctx, tx, section.ID, section.Meetings); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update section: %w", err)
	}
	return nil
}

// Delete removes a section and its meetings.
func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete section: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM section_meetings WHERE section_id = $1`, id); err != nil {
		return fmt.Errorf("delete section meetings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete section: %w", err)
	}
	return nil
}

func insertMeetings(ctx context.Context, tx *sqlx.Tx, sectionID string, meetings []models.MeetingOccurrence) error {
	const query = `INSERT INTO section_meetings (id, section_id, day_of_week, start_time, end_time, room_id)
        VALUES (:id, :section_id, :day_of_week, :start_time, :end_time, :room_id)`
	for i := range meetings {
		meeting := &meetings[i]
		if meeting.ID == "" {
			meeting.ID = uuid.NewString()
		}
		meeting.SectionID = sectionID
		if _, err := tx.NamedExecContext(ctx, query, meeting); err != nil {
			return fmt.Errorf("create section meeting: %w", err)
		}
	}
	return nil
}

// attachMeetings loads the meeting occurrences for the given sections in one
// query and distributes them onto the parent structs.
func (r *SectionRepository) attachMeetings(ctx context.Context, sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}
	ids := make([]string, 0, len(sections))
	for i := range sections {
		ids = append(ids, sections[i].ID)
	}

	const query = `SELECT id, section_id, day_of_week, start_time, end_time, room_id
        FROM section_meetings WHERE section_id = ANY($1) ORDER BY section_id, day_of_week, start_time, id`
	var meetings []models.MeetingOccurrence
	if err := r.db.SelectContext(ctx, &meetings, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("load section meetings: %w", err)
	}

	bySection := make(map[string][]models.MeetingOccurrence, len(sections))
	for _, meeting := range meetings {
		bySection[meeting.SectionID] = append(bySection[meeting.SectionID], meeting)
	}
	for i := range sections {
		sections[i].Meetings = bySection[sections[i].ID]
	}
	return nil
}
