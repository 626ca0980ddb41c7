package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/analysis"
	"github.com/coursedeck/coursedeck-api/internal/dto"
	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/export"
	"github.com/coursedeck/coursedeck-api/pkg/jobs"
	"github.com/coursedeck/coursedeck-api/pkg/storage"
)

type analysisRunner interface {
	Run(ctx context.Context, scenarioID string, bufferMinutes *int) (*analysis.Report, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix  string
	ResultTTL  time.Duration
	Workers    int
	MaxRetries int
}

// exportPayload travels through the job queue.
type exportPayload struct {
	JobID         string
	ScenarioID    string
	Format        models.ExportFormat
	BufferMinutes *int
}

// ExportService renders analysis reports to downloadable files. Job records
// live in memory for the life of the process; the artifacts themselves are
// persisted under the export storage directory and served through signed,
// expiring tokens.
type ExportService struct {
	runner  analysisRunner
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	queue   *jobs.Queue
	logger  *zap.Logger
	cfg     ExportConfig

	mu      sync.RWMutex
	records map[string]*models.ExportJob
}

// NewExportService constructs an ExportService with its own worker queue.
// Call Start before enqueueing and Stop on shutdown.
func NewExportService(runner analysisRunner, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	s := &ExportService{
		runner:  runner,
		storage: store,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
		records: make(map[string]*models.ExportJob),
	}
	s.queue = jobs.NewQueue("analysis-exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Enqueue registers an export job for a scenario and hands it to the queue.
func (s *ExportService) Enqueue(ctx context.Context, scenarioID string, req dto.CreateExportJobRequest) (*dto.ExportJobResponse, error) {
	format := models.ExportFormat(strings.ToUpper(req.Format))
	if format != models.ExportFormatCSV && format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be CSV or PDF")
	}
	if req.BufferMinutes != nil && (*req.BufferMinutes < 0 || *req.BufferMinutes > 24*60) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "bufferMinutes must be between 0 and 1440")
	}

	record := &models.ExportJob{
		ID:         uuid.NewString(),
		ScenarioID: scenarioID,
		Format:     format,
		Status:     models.ExportJobPending,
		CreatedAt:  time.Now().UTC(),
	}
	s.mu.Lock()
	s.records[record.ID] = record
	s.mu.Unlock()

	err := s.queue.Enqueue(jobs.Job{
		ID:   record.ID,
		Type: "analysis_export",
		Payload: exportPayload{
			JobID:         record.ID,
			ScenarioID:    scenarioID,
			Format:        format,
			BufferMinutes: req.BufferMinutes,
		},
	})
	if err != nil {
		s.markFailed(record.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}

	s.logger.Info("export queued",
		zap.String("job_id", record.ID),
		zap.String("scenario_id", scenarioID),
		zap.String("format", string(format)))
	return s.toResponse(record), nil
}

// GetJob returns the state of an export job, with a fresh signed download
// URL when the artifact is ready.
func (s *ExportService) GetJob(jobID string) (*dto.ExportJobResponse, error) {
	s.mu.RLock()
	record, ok := s.records[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return s.toResponse(record), nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// process runs on queue workers.
func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		return fmt.Errorf("unexpected export payload %T", job.Payload)
	}
	s.setStatus(payload.JobID, models.ExportJobRunning)

	report, err := s.runner.Run(ctx, payload.ScenarioID, payload.BufferMinutes)
	if err != nil {
		s.markFailed(payload.JobID, err)
		return fmt.Errorf("run analysis for export: %w", err)
	}

	dataset := buildAnalysisDataset(report)
	title := fmt.Sprintf("Schedule Conflict Report %s", payload.ScenarioID)

	var rendered []byte
	switch payload.Format {
	case models.ExportFormatCSV:
		rendered, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		rendered, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", payload.Format)
	}
	if err != nil {
		s.markFailed(payload.JobID, err)
		return fmt.Errorf("render export: %w", err)
	}

	filename := fmt.Sprintf("analysis_%s_%s.%s",
		sanitizeFilename(payload.ScenarioID),
		time.Now().UTC().Format("20060102_150405"),
		strings.ToLower(string(payload.Format)))
	relPath, err := s.storage.Save(filename, rendered)
	if err != nil {
		s.markFailed(payload.JobID, err)
		return fmt.Errorf("store export: %w", err)
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if record, ok := s.records[payload.JobID]; ok {
		record.Status = models.ExportJobDone
		record.FileName = relPath
		record.CompletedAt = &now
	}
	s.mu.Unlock()

	s.logger.Info("export completed",
		zap.String("job_id", payload.JobID),
		zap.String("file", relPath),
		zap.Int("findings", len(dataset.Rows)))
	return nil
}

func (s *ExportService) setStatus(jobID string, status models.ExportJobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[jobID]; ok {
		record.Status = status
	}
}

func (s *ExportService) markFailed(jobID string, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[jobID]; ok {
		record.Status = models.ExportJobFailed
		record.Error = err.Error()
		record.CompletedAt = &now
	}
}

func (s *ExportService) toResponse(record *models.ExportJob) *dto.ExportJobResponse {
	s.mu.RLock()
	resp := &dto.ExportJobResponse{
		ID:          record.ID,
		ScenarioID:  record.ScenarioID,
		Format:      string(record.Format),
		Status:      string(record.Status),
		CreatedAt:   record.CreatedAt,
		CompletedAt: record.CompletedAt,
	}
	if record.Error != "" {
		msg := record.Error
		resp.Error = &msg
	}
	fileName := record.FileName
	done := record.Status == models.ExportJobDone
	s.mu.RUnlock()

	if done && fileName != "" && s.signer != nil {
		token, expiresAt, err := s.signer.Generate(record.ID, fileName)
		if err == nil {
			prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
			if prefix == "" {
				prefix = "/api/v1"
			}
			url := fmt.Sprintf("%s/exports/download/%s", prefix, token)
			resp.DownloadURL = &url
			resp.ExpiresAt = &expiresAt
		} else {
			s.logger.Warn("signed url generation failed", zap.String("job_id", record.ID), zap.Error(err))
		}
	}
	return resp
}

// buildAnalysisDataset flattens every finding category into one table, a row
// per finding.
func buildAnalysisDataset(report *analysis.Report) export.Dataset {
	headers := []string{"Finding", "Context", "Day", "Sections", "Times", "Gap (min)", "Notes"}
	rows := make([]map[string]string, 0,
		len(report.InstructorConflicts)+len(report.RoomConflicts)+len(report.BufferViolations)+len(report.PathwayIssues))

	for _, c := range report.InstructorConflicts {
		rows = append(rows, map[string]string{
			"Finding":   "Instructor double-booking",
			"Context":   c.InstructorName,
			"Day":       string(c.Day),
			"Sections":  formatSectionPair(c.SectionA, c.SectionB),
			"Times":     formatOccurrencePair(c.OccurrenceA, c.OccurrenceB),
			"Gap (min)": "",
			"Notes":     "",
		})
	}
	for _, c := range report.RoomConflicts {
		rows = append(rows, map[string]string{
			"Finding":   "Room double-booking",
			"Context":   c.RoomName,
			"Day":       string(c.Day),
			"Sections":  formatSectionPair(c.SectionA, c.SectionB),
			"Times":     formatOccurrencePair(c.OccurrenceA, c.OccurrenceB),
			"Gap (min)": "",
			"Notes":     "",
		})
	}
	for _, v := range report.BufferViolations {
		rows = append(rows, map[string]string{
			"Finding":   "Turnaround buffer violation",
			"Context":   v.RoomName,
			"Day":       string(v.Day),
			"Sections":  formatSectionPair(v.FirstSection, v.SecondSection),
			"Times":     formatOccurrencePair(v.FirstOccurrence, v.SecondOccurrence),
			"Gap (min)": fmt.Sprintf("%d", v.GapMinutes),
			"Notes":     "",
		})
	}
	for _, issue := range report.PathwayIssues {
		rows = append(rows, map[string]string{
			"Finding":   "Pathway infeasibility",
			"Context":   issue.PathwayName,
			"Day":       "",
			"Sections":  "",
			"Times":     "",
			"Gap (min)": "",
			"Notes":     issue.Message,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func formatSectionPair(a, b analysis.SectionRef) string {
	return fmt.Sprintf("%s %s vs %s %s", a.CourseCode, a.Label, b.CourseCode, b.Label)
}

func formatOccurrencePair(a, b analysis.Occurrence) string {
	return fmt.Sprintf("%s-%s / %s-%s", a.StartTime, a.EndTime, b.StartTime, b.EndTime)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
