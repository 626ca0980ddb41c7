package models

import "time"

// ExportFormat selects the rendering target for an analysis export.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "CSV"
	ExportFormatPDF ExportFormat = "PDF"
)

// ExportJobStatus tracks the lifecycle of an asynchronous export.
type ExportJobStatus string

const (
	ExportJobPending ExportJobStatus = "PENDING"
	ExportJobRunning ExportJobStatus = "RUNNING"
	ExportJobDone    ExportJobStatus = "DONE"
	ExportJobFailed  ExportJobStatus = "FAILED"
)

// ExportJob describes one queued rendering of a scenario's analysis report.
// Jobs are held in memory; the rendered artifact lives in the export storage
// directory until cleanup.
type ExportJob struct {
	ID          string          `json:"id"`
	ScenarioID  string          `json:"scenario_id"`
	Format      ExportFormat    `json:"format"`
	Status      ExportJobStatus `json:"status"`
	FileName    string          `json:"file_name,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}
