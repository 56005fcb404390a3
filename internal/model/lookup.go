package model

type Faculty struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Acronym string `json:"acronym" db:"acronym"`
}

type School struct {
	ID        int64  `json:"id" db:"id"`
	FacultyID int64  `json:"faculty_id" db:"faculty_id"`
	Name      string `json:"name" db:"name"`
	Acronym   string `json:"acronym" db:"acronym"`
}

// Term metadata may be incomplete upstream; Number and Year are nullable.
type Term struct {
	ID     int64 `json:"id" db:"id"`
	Number *int  `json:"number" db:"number"`
	Year   *int  `json:"year" db:"year"`
}

// BillingReport associates a consolidated report with a load file.
type BillingReport struct {
	ID                 int64 `json:"id" db:"id"`
	AcademicLoadFileID int64 `json:"academic_load_file_id" db:"academic_load_file_id"`
}
