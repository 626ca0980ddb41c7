package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/dto"
	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

type sectionRepository interface {
	List(ctx context.Context, filter models.SectionFilter) ([]models.Section, int, error)
	FindByID(ctx context.Context, id string) (*models.Section, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section, replaceMeetings bool) error
	Delete(ctx context.Context, id string) error
}

type sectionScenarioReader interface {
	FindByID(ctx context.Context, id string) (*models.Scenario, error)
}

type sectionInstructorRegistry interface {
	ListAll(ctx context.Context) ([]models.Instructor, error)
	Create(ctx context.Context, instructor *models.Instructor) error
}

type sectionRoomReader interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

// SectionService handles section use-cases within a scenario, including
// bulk CSV import.
type SectionService struct {
	repo        sectionRepository
	scenarios   sectionScenarioReader
	instructors sectionInstructorRegistry
	rooms       sectionRoomReader
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSectionService constructs the section service.
func NewSectionService(
	repo sectionRepository,
	scenarios sectionScenarioReader,
	instructors sectionInstructorRegistry,
	rooms sectionRoomReader,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
) *SectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{
		repo:        repo,
		scenarios:   scenarios,
		instructors: instructors,
		rooms:       rooms,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// List returns a scenario's sections and pagination metadata.
func (s *SectionService) List(ctx context.Context, scenarioID string, filter models.SectionFilter) ([]models.Section, *models.Pagination, error) {
	filter.ScenarioID = scenarioID
	sections, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return sections, pagination, nil
}

// Get returns a section by id.
func (s *SectionService) Get(ctx context.Context, id string) (*models.Section, error) {
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	return section, nil
}

// Create adds a section to a scenario.
func (s *SectionService) Create(ctx context.Context, scenarioID string, req dto.CreateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	if _, err := s.scenarios.FindByID(ctx, scenarioID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scenario not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scenario")
	}
	meetings, err := buildMeetings(req.Meetings)
	if err != nil {
		return nil, err
	}

	kind := models.SectionKind(req.Kind)
	if req.Kind == "" {
		kind = models.KindLecture
	}
	section := &models.Section{
		ScenarioID:   scenarioID,
		CourseCode:   strings.TrimSpace(req.CourseCode),
		Title:        req.Title,
		Label:        req.Label,
		Kind:         kind,
		Modality:     req.Modality,
		InstructorID: req.InstructorID,
		Meetings:     meetings,
	}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
	}
	s.invalidateAnalysis(ctx, scenarioID)
	return section, nil
}

// Update applies partial changes to a section.
func (s *SectionService) Update(ctx context.Context, id string, req dto.UpdateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	section, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CourseCode != nil {
		section.CourseCode = strings.TrimSpace(*req.CourseCode)
	}
	if req.Title != nil {
		section.Title = *req.Title
	}
	if req.Label != nil {
		section.Label = *req.Label
	}
	if req.Kind != nil {
		section.Kind = models.SectionKind(*req.Kind)
	}
	if req.Modality != nil {
		section.Modality = *req.Modality
	}
	if req.InstructorID != nil {
		section.InstructorID = *req.InstructorID
	}
	replaceMeetings := false
	if req.Meetings != nil {
		meetings, err := buildMeetings(*req.Meetings)
		if err != nil {
			return nil, err
		}
		section.Meetings = meetings
		replaceMeetings = true
	}
	if err := s.repo.Update(ctx, section, replaceMeetings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update section")
	}
	s.invalidateAnalysis(ctx, section.ScenarioID)
	return section, nil
}

// Delete removes a section.
func (s *SectionService) Delete(ctx context.Context, id string) error {
	section, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section")
	}
	s.invalidateAnalysis(ctx, section.ScenarioID)
	return nil
}

// ImportCSV bulk-loads sections from CSV bytes. Rows sharing course code and
// label merge into one section carrying every listed meeting. Instructor
// names absent from the roster are registered on the fly; unknown room names
// reject the row because a room type cannot be inferred.
func (s *SectionService) ImportCSV(ctx context.Context, scenarioID string, payload []byte) (*dto.ImportSectionsResult, error) {
	if _, err := s.scenarios.FindByID(ctx, scenarioID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scenario not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scenario")
	}

	var rows []dto.SectionImportRow
	if err := gocsv.UnmarshalBytes(payload, &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed csv payload")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "csv contains no data rows")
	}

	instructorsByName, err := s.instructorNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	roomsByName, err := s.roomNameIndex(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportSectionsResult{Errors: make([]dto.ImportRowError, 0)}
	grouped := make(map[string]*models.Section)
	var order []string

	for i := range rows {
		row := rows[i]
		line := i + 2 // header occupies line 1

		if strings.TrimSpace(row.CourseCode) == "" {
			result.Skipped++
			result.Errors = append(result.Errors, dto.ImportRowError{Line: line, Message: "course_code is required"})
			continue
		}
		day := models.Weekday(strings.ToUpper(strings.TrimSpace(row.Day)))
		if !day.Valid() {
			result.Skipped++
			result.Errors = append(result.Errors, dto.ImportRowError{Line: line, Message: fmt.Sprintf("unknown day %q", row.Day)})
			continue
		}
		if err := validateClockPair(row.StartTime, row.EndTime); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, dto.ImportRowError{Line: line, Message: err.Error()})
			continue
		}

		var roomID *string
		if name := strings.TrimSpace(row.RoomName); name != "" {
			room, ok := roomsByName[strings.ToLower(name)]
			if !ok {
				result.Skipped++
				result.Errors = append(result.Errors, dto.ImportRowError{Line: line, Message: fmt.Sprintf("unknown room %q", name)})
				continue
			}
			id := room.ID
			roomID = &id
		}

		instructorID := ""
		if name := strings.TrimSpace(row.InstructorName); name != "" {
			instructorID, err = s.resolveInstructor(ctx, name, instructorsByName)
			if err != nil {
				return nil, err
			}
		}

		key := strings.TrimSpace(row.CourseCode) + "|" + strings.TrimSpace(row.Label)
		section, ok := grouped[key]
		if !ok {
			kind := models.SectionKind(strings.ToUpper(strings.TrimSpace(row.Kind)))
			if kind == "" {
				kind = models.KindLecture
			}
			section = &models.Section{
				ScenarioID:   scenarioID,
				CourseCode:   strings.TrimSpace(row.CourseCode),
				Title:        strings.TrimSpace(row.Title),
				Label:        strings.TrimSpace(row.Label),
				Kind:         kind,
				InstructorID: instructorID,
			}
			grouped[key] = section
			order = append(order, key)
		}
		section.Meetings = append(section.Meetings, models.MeetingOccurrence{
			Day:       day,
			StartTime: strings.TrimSpace(row.StartTime),
			EndTime:   strings.TrimSpace(row.EndTime),
			RoomID:    roomID,
		})
	}

	sort.Strings(order)
	for _, key := range order {
		if err := s.repo.Create(ctx, grouped[key]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist imported sections")
		}
		result.Created++
	}

	s.logger.Info("sections imported",
		zap.String("scenario_id", scenarioID),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	s.invalidateAnalysis(ctx, scenarioID)
	return result, nil
}

func (s *SectionService) instructorNameIndex(ctx context.Context) (map[string]models.Instructor, error) {
	instructors, err := s.instructors.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	index := make(map[string]models.Instructor, len(instructors))
	for _, instructor := range instructors {
		index[strings.ToLower(instructor.FullName)] = instructor
	}
	return index, nil
}

func (s *SectionService) roomNameIndex(ctx context.Context) (map[string]models.Room, error) {
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	index := make(map[string]models.Room, len(rooms))
	for _, room := range rooms {
		index[strings.ToLower(room.Name)] = room
	}
	return index, nil
}

func (s *SectionService) resolveInstructor(ctx context.Context, name string, index map[string]models.Instructor) (string, error) {
	if existing, ok := index[strings.ToLower(name)]; ok {
		return existing.ID, nil
	}
	instructor := &models.Instructor{FullName: name}
	if err := s.instructors.Create(ctx, instructor); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register instructor")
	}
	index[strings.ToLower(name)] = *instructor
	return instructor.ID, nil
}

func (s *SectionService) invalidateAnalysis(ctx context.Context, scenarioID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "analysis:scenario:"+scenarioID+":*"); err != nil {
		s.logger.Warn("analysis cache invalidation failed", zap.String("scenario_id", scenarioID), zap.Error(err))
	}
}

// buildMeetings validates and converts meeting payloads.
func buildMeetings(reqs []dto.MeetingOccurrenceRequest) ([]models.MeetingOccurrence, error) {
	meetings := make([]models.MeetingOccurrence, 0, len(reqs))
	for _, req := range reqs {
		if err := validateClockPair(req.StartTime, req.EndTime); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		meetings = append(meetings, models.MeetingOccurrence{
			Day:       models.Weekday(req.Day),
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			RoomID:    req.RoomID,
		})
	}
	return meetings, nil
}

// validateClockPair rejects malformed or non-positive meeting windows at the
// write boundary, keeping the read-side engine free to treat bad data as
// merely inert.
func validateClockPair(start, end string) error {
	startAt, err := time.Parse("15:04", strings.TrimSpace(start))
	if err != nil {
		return fmt.Errorf("invalid start_time %q, want HH:MM", start)
	}
	endAt, err := time.Parse("15:04", strings.TrimSpace(end))
	if err != nil {
		return fmt.Errorf("invalid end_time %q, want HH:MM", end)
	}
	if !endAt.After(startAt) {
		return fmt.Errorf("end_time %q must be after start_time %q", end, start)
	}
	return nil
}
