package dto

import "time"

// CreateExportJobRequest queues an analysis report export.
type CreateExportJobRequest struct {
	Format        string `json:"format" validate:"required,oneof=CSV PDF"`
	BufferMinutes *int   `json:"bufferMinutes" validate:"omitempty,min=0,max=1440"`
}

// ExportJobResponse reports the state of a queued export.
type ExportJobResponse struct {
	ID          string     `json:"id"`
	ScenarioID  string     `json:"scenarioId"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	DownloadURL *string    `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
