package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/analysis"
	"github.com/coursedeck/coursedeck-api/internal/dto"
	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/pkg/storage"
)

type stubRunner struct {
	report *analysis.Report
	err    error
}

func (s *stubRunner) Run(_ context.Context, _ string, _ *int) (*analysis.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func sampleReport() *analysis.Report {
	return &analysis.Report{
		InstructorConflicts: []analysis.InstructorConflict{{
			InstructorName: "Dr. Chen",
			Day:            models.Tuesday,
			SectionA:       analysis.SectionRef{ID: "sec-1", CourseCode: "CS 301", Label: "A"},
			SectionB:       analysis.SectionRef{ID: "sec-2", CourseCode: "MATH 210", Label: "B"},
			OccurrenceA:    analysis.Occurrence{Day: models.Tuesday, StartTime: "13:00", EndTime: "15:00"},
			OccurrenceB:    analysis.Occurrence{Day: models.Tuesday, StartTime: "14:00", EndTime: "14:30"},
		}},
		RoomConflicts:        []analysis.RoomConflict{},
		BufferViolations:     []analysis.BufferViolation{},
		PathwayIssues:        []analysis.PathwayIssue{{PathwayName: "Core", Message: "MATH 305: no sections offered"}},
		ConflictedSectionIDs: []string{"sec-1", "sec-2"},
	}
}

func newExportServiceForTest(t *testing.T, runner analysisRunner) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(runner, store, signer, ExportConfig{
		APIPrefix: "/api/v1",
		Workers:   1,
	}, zap.NewNop(), nil, nil)
}

func TestExportServiceEnqueueAndComplete(t *testing.T) {
	svc := newExportServiceForTest(t, &stubRunner{report: sampleReport()})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	job, err := svc.Enqueue(ctx, "scn-1", dto.CreateExportJobRequest{Format: "CSV"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := svc.GetJob(job.ID)
		return err == nil && current.Status == string(models.ExportJobDone)
	}, 5*time.Second, 20*time.Millisecond)

	done, err := svc.GetJob(job.ID)
	require.NoError(t, err)
	require.NotNil(t, done.DownloadURL)
	assert.Contains(t, *done.DownloadURL, "/api/v1/exports/download/")
	require.NotNil(t, done.ExpiresAt)

	// The signed token round-trips back to the stored artifact.
	token := (*done.DownloadURL)[len("/api/v1/exports/download/"):]
	jobID, relPath, _, err := svc.ParseToken(token, false)
	require.NoError(t, err)
	assert.Equal(t, job.ID, jobID)

	file, err := svc.Open(relPath)
	require.NoError(t, err)
	defer file.Close()
	payload, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Dr. Chen")
	assert.Contains(t, string(payload), "MATH 305: no sections offered")
}

func TestExportServiceEnqueueRejectsUnknownFormat(t *testing.T) {
	svc := newExportServiceForTest(t, &stubRunner{report: sampleReport()})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	_, err := svc.Enqueue(ctx, "scn-1", dto.CreateExportJobRequest{Format: "XLSX"})
	require.Error(t, err)
}

func TestExportServiceGetJobUnknown(t *testing.T) {
	svc := newExportServiceForTest(t, &stubRunner{report: sampleReport()})

	_, err := svc.GetJob("missing")
	require.Error(t, err)
}
