package model

import "time"

// IngestionStatus is the closed lifecycle of an uploaded load file:
// PENDING -> PROCESSING -> {COMPLETED, FAILED}. Transitions are driven by
// the ingestion worker and never reversed.
type IngestionStatus string

const (
	StatusPending    IngestionStatus = "PENDING"
	StatusProcessing IngestionStatus = "PROCESSING"
	StatusCompleted  IngestionStatus = "COMPLETED"
	StatusFailed     IngestionStatus = "FAILED"
)

func (s IngestionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status can no longer change without user
// action.
func (s IngestionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed:
		return true
	case StatusPending, StatusProcessing:
		return false
	}
	return false
}

// AcademicLoadFile is one uploaded spreadsheet submission for a
// (faculty, school, term) context. Records sharing a context form a
// version group; within a group exactly one record is active.
type AcademicLoadFile struct {
	ID               int64           `json:"id" db:"id"`
	FacultyID        int64           `json:"faculty_id" db:"faculty_id"`
	SchoolID         int64           `json:"school_id" db:"school_id"`
	TermID           int64           `json:"term_id" db:"term_id"`
	Version          int             `json:"version" db:"version"`
	IsActive         bool            `json:"is_active" db:"is_active"`
	Status           IngestionStatus `json:"status" db:"status"`
	S3Path           string          `json:"s3_path" db:"s3_path"`
	OriginalFilename string          `json:"original_filename" db:"original_filename"`
	UserName         string          `json:"user_name" db:"user_name"`
	Notes            *string         `json:"notes,omitempty" db:"notes"`
	UploadDate       time.Time       `json:"upload_date" db:"upload_date"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`

	// Denormalized lookup fields, populated by list queries.
	FacultyName string `json:"faculty_name,omitempty" db:"faculty_name"`
	SchoolName  string `json:"school_name,omitempty" db:"school_name"`
	TermNumber  *int   `json:"term_number,omitempty" db:"term_number"`
	TermYear    *int   `json:"term_year,omitempty" db:"term_year"`
}

// GroupKey identifies the version group a record belongs to.
type GroupKey struct {
	FacultyID int64
	SchoolID  int64
	TermID    int64
}

func (f *AcademicLoadFile) Group() GroupKey {
	return GroupKey{FacultyID: f.FacultyID, SchoolID: f.SchoolID, TermID: f.TermID}
}
