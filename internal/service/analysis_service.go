package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/analysis"
	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

type analysisScenarioReader interface {
	FindByID(ctx context.Context, id string) (*models.Scenario, error)
}

type analysisSectionReader interface {
	ListByScenario(ctx context.Context, scenarioID string) ([]models.Section, error)
}

type analysisInstructorReader interface {
	ListAll(ctx context.Context) ([]models.Instructor, error)
}

type analysisRoomReader interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type analysisPathwayReader interface {
	ListAll(ctx context.Context) ([]models.Pathway, error)
}

// AnalysisService loads a scenario snapshot, runs the conflict engine over
// it, and memoizes results keyed by a digest of the inputs. Any change to
// the snapshot or the buffer produces a new key, so stale entries are never
// served and mutation paths only invalidate for hygiene.
type AnalysisService struct {
	scenarios     analysisScenarioReader
	sections      analysisSectionReader
	instructors   analysisInstructorReader
	rooms         analysisRoomReader
	pathways      analysisPathwayReader
	cache         *CacheService
	metrics       *MetricsService
	logger        *zap.Logger
	defaultBuffer int
	cacheTTL      time.Duration
}

// AnalysisServiceConfig tunes runtime behaviour.
type AnalysisServiceConfig struct {
	DefaultBufferMinutes int
	CacheTTL             time.Duration
}

// NewAnalysisService constructs an AnalysisService.
func NewAnalysisService(
	scenarios analysisScenarioReader,
	sections analysisSectionReader,
	instructors analysisInstructorReader,
	rooms analysisRoomReader,
	pathways analysisPathwayReader,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg AnalysisServiceConfig,
) *AnalysisService {
	if cfg.DefaultBufferMinutes < 0 {
		cfg.DefaultBufferMinutes = 0
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &AnalysisService{
		scenarios:     scenarios,
		sections:      sections,
		instructors:   instructors,
		rooms:         rooms,
		pathways:      pathways,
		cache:         cache,
		metrics:       metrics,
		logger:        logger,
		defaultBuffer: cfg.DefaultBufferMinutes,
		cacheTTL:      cfg.CacheTTL,
	}
}

// Run produces the conflict report for a scenario. A nil bufferMinutes uses
// the configured default; explicit values must be non-negative.
func (s *AnalysisService) Run(ctx context.Context, scenarioID string, bufferMinutes *int) (*analysis.Report, error) {
	buffer := s.defaultBuffer
	if bufferMinutes != nil {
		if *bufferMinutes < 0 || *bufferMinutes > 24*60 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "bufferMinutes must be between 0 and 1440")
		}
		buffer = *bufferMinutes
	}

	if _, err := s.scenarios.FindByID(ctx, scenarioID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scenario not found")
		}
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	sections, err := s.sections.ListByScenario(ctx, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	instructors, err := s.instructors.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load instructors: %w", err)
	}
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	pathways, err := s.pathways.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pathways: %w", err)
	}

	key := analysisCacheKey(scenarioID, buffer, sections, instructors, rooms, pathways)

	var cached analysis.Report
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		if s.metrics != nil {
			s.metrics.ObserveAnalysisRun(true, 0)
		}
		return &cached, nil
	}

	start := time.Now()
	report := analysis.Analyze(sections, instructors, rooms, pathways, buffer)
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveAnalysisRun(false, elapsed)
	}
	if s.logger != nil {
		s.logger.Info("analysis computed",
			zap.String("scenario_id", scenarioID),
			zap.Int("buffer_minutes", buffer),
			zap.Int("sections", len(sections)),
			zap.Int("conflicted_sections", len(report.ConflictedSectionIDs)),
			zap.Duration("elapsed", elapsed))
	}

	if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("analysis cache store failed", zap.String("key", key), zap.Error(err))
	}
	return report, nil
}

// analysisCacheKey digests the analysis-relevant projection of the snapshot.
// Registry timestamps and display-only fields are left out so cosmetic
// updates do not churn the cache.
func analysisCacheKey(scenarioID string, buffer int, sections []models.Section, instructors []models.Instructor, rooms []models.Room, pathways []models.Pathway) string {
	type meetingKey struct {
		Day    models.Weekday `json:"d"`
		Start  string         `json:"s"`
		End    string         `json:"e"`
		RoomID *string        `json:"r,omitempty"`
	}
	type sectionKey struct {
		ID           string       `json:"id"`
		CourseCode   string       `json:"cc"`
		Label        string       `json:"lb"`
		InstructorID string       `json:"in"`
		Meetings     []meetingKey `json:"mt"`
	}
	type snapshot struct {
		Scenario    string              `json:"sc"`
		Buffer      int                 `json:"bf"`
		Sections    []sectionKey        `json:"se"`
		Instructors map[string]string   `json:"ins"`
		Rooms       map[string]string   `json:"ro"`
		Pathways    map[string][]string `json:"pw"`
	}

	snap := snapshot{
		Scenario:    scenarioID,
		Buffer:      buffer,
		Instructors: make(map[string]string, len(instructors)),
		Rooms:       make(map[string]string, len(rooms)),
		Pathways:    make(map[string][]string, len(pathways)),
	}
	for _, section := range sections {
		key := sectionKey{
			ID:           section.ID,
			CourseCode:   section.CourseCode,
			Label:        section.Label,
			InstructorID: section.InstructorID,
		}
		for _, meeting := range section.Meetings {
			key.Meetings = append(key.Meetings, meetingKey{
				Day:    meeting.Day,
				Start:  meeting.StartTime,
				End:    meeting.EndTime,
				RoomID: meeting.RoomID,
			})
		}
		snap.Sections = append(snap.Sections, key)
	}
	for _, instructor := range instructors {
		snap.Instructors[instructor.ID] = instructor.FullName
	}
	for _, room := range rooms {
		snap.Rooms[room.ID] = room.Name + "|" + string(room.Type)
	}
	for _, pathway := range pathways {
		snap.Pathways[pathway.ID] = append([]string{pathway.Name}, pathway.RequiredCourses...)
	}

	payload, _ := json.Marshal(snap)
	digest := sha256.Sum256(payload)
	return fmt.Sprintf("analysis:scenario:%s:%s", scenarioID, hex.EncodeToString(digest[:]))
}
