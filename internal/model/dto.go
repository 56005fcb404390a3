package model

import "time"

// IngestionJob is the queue payload handed to the ingestion worker after
// an upload.
type IngestionJob struct {
	FileID int64  `json:"file_id"`
	S3Path string `json:"s3_path"`
}

// ListResponse is the envelope returned by the list endpoint.
type ListResponse struct {
	Data  []AcademicLoadFile `json:"data"`
	Total int                `json:"total"`
}

type UploadResponse struct {
	File    AcademicLoadFile `json:"file"`
	Message string           `json:"message"`
}

type DeleteResponse struct {
	Message string `json:"message"`
	// Note is set when the deleted record was the active version and an
	// older version was promoted in its place.
	Note string `json:"note,omitempty"`
}

type StatusResponse struct {
	FileID       int64     `json:"file_id"`
	Status       string    `json:"status"`
	TotalEntries int       `json:"total_entries"`
	UpdatedAt    time.Time `json:"updated_at"`
	Errors       []string  `json:"errors,omitempty"`
}

// Notification is the payload posted to the notification webhook.
type Notification struct {
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
