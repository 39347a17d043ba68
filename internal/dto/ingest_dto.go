package dto

import "time"

// IngestDirectoryRequest triggers a bulk ingest over a server-side directory.
type IngestDirectoryRequest struct {
	Directory string `json:"directory" validate:"required"`
}

type IngestFailureDTO struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// IngestReportResponse summarizes one ingestion run.
type IngestReportResponse struct {
	Dataset        string             `json:"dataset"`
	Directory      string             `json:"directory,omitempty"`
	FilesProcessed int                `json:"files_processed"`
	FilesSkipped   int                `json:"files_skipped"`
	ChunksAdded    int                `json:"chunks_added"`
	FailedFiles    []IngestFailureDTO `json:"failed_files"`
	Duration       string             `json:"duration"`
	TotalChunks    int64              `json:"total_chunks"`
}

// UploadResponse acknowledges an uploaded document queued for embedding.
type UploadResponse struct {
	File   string `json:"file"`
	Status string `json:"status"`
}

// IngestDocumentMessage is the payload published to the in-process bus when a
// document upload needs embedding.
type IngestDocumentMessage struct {
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploaded_at"`
}
