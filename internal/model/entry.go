package model

import "time"

// LoadRow is one parsed spreadsheet row before staging.
type LoadRow struct {
	CourseCode    string  `json:"course_code"`
	CourseName    string  `json:"course_name"`
	ProfessorID   string  `json:"professor_id"`
	ProfessorName string  `json:"professor_name"`
	GroupCount    int     `json:"group_count"`
	WeeklyHours   float64 `json:"weekly_hours"`
}

// LoadEntry is a staged row tied to the file it came from.
type LoadEntry struct {
	ID            int64     `json:"id" db:"id"`
	FileID        int64     `json:"file_id" db:"file_id"`
	CourseCode    string    `json:"course_code" db:"course_code"`
	CourseName    string    `json:"course_name" db:"course_name"`
	ProfessorID   string    `json:"professor_id" db:"professor_id"`
	ProfessorName string    `json:"professor_name" db:"professor_name"`
	GroupCount    int       `json:"group_count" db:"group_count"`
	WeeklyHours   float64   `json:"weekly_hours" db:"weekly_hours"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
