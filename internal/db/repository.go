package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
	apperrors "github.com/xzeggaedu/fica-academic-sub002/pkg/errors"
)

type Repository interface {
	ListFiles(ctx context.Context, page, pageSize int) ([]model.AcademicLoadFile, int, error)
	GetFile(ctx context.Context, fileID int64) (*model.AcademicLoadFile, error)
	CreateFile(ctx context.Context, file *model.AcademicLoadFile) error
	DeleteFile(ctx context.Context, fileID int64) (promoted *model.AcademicLoadFile, wasActive bool, err error)
	UpdateFileStatus(ctx context.Context, fileID int64, status model.IngestionStatus, notes *string) error
	InsertEntries(ctx context.Context, fileID int64, rows []model.LoadRow) error
	GetFileStatus(ctx context.Context, fileID int64) (*model.StatusResponse, error)
	ListBillingReports(ctx context.Context) ([]model.BillingReport, error)
	BillingReportFileIDs(ctx context.Context) (map[int64]struct{}, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const fileColumns = `f.id, f.faculty_id, f.school_id, f.term_id, f.version, f.is_active,
	f.status, f.s3_path, f.original_filename, f.user_name, f.notes,
	f.upload_date, f.updated_at,
	fac.name, sch.name, t.number, t.year`

const fileJoins = `FROM academic_load_files f
	JOIN faculties fac ON fac.id = f.faculty_id
	JOIN schools sch ON sch.id = f.school_id
	JOIN terms t ON t.id = f.term_id`

func scanFile(scanner interface{ Scan(...interface{}) error }) (*model.AcademicLoadFile, error) {
	var f model.AcademicLoadFile
	err := scanner.Scan(
		&f.ID, &f.FacultyID, &f.SchoolID, &f.TermID, &f.Version, &f.IsActive,
		&f.Status, &f.S3Path, &f.OriginalFilename, &f.UserName, &f.Notes,
		&f.UploadDate, &f.UpdatedAt,
		&f.FacultyName, &f.SchoolName, &f.TermNumber, &f.TermYear,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) ListFiles(ctx context.Context, page, pageSize int) ([]model.AcademicLoadFile, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM academic_load_files`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s ORDER BY f.id`, fileColumns, fileJoins)
	args := []interface{}{}
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, pageSize, (page-1)*pageSize)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var files []model.AcademicLoadFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, 0, err
		}
		files = append(files, *f)
	}

	return files, total, rows.Err()
}

func (r *repository) GetFile(ctx context.Context, fileID int64) (*model.AcademicLoadFile, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE f.id = ?`, fileColumns, fileJoins)

	f, err := scanFile(r.db.QueryRowContext(ctx, query, fileID))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFile allocates the next version within the record's
// (faculty, school, term) group, deactivates the current active version
// and inserts the new record as active, all in one transaction.
func (r *repository) CreateFile(ctx context.Context, file *model.AcademicLoadFile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var maxVersion sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(version) FROM academic_load_files
		 WHERE faculty_id = ? AND school_id = ? AND term_id = ? FOR UPDATE`,
		file.FacultyID, file.SchoolID, file.TermID,
	).Scan(&maxVersion)
	if err != nil {
		return err
	}
	file.Version = int(maxVersion.Int64) + 1

	_, err = tx.ExecContext(ctx,
		`UPDATE academic_load_files SET is_active = 0, updated_at = NOW()
		 WHERE faculty_id = ? AND school_id = ? AND term_id = ? AND is_active = 1`,
		file.FacultyID, file.SchoolID, file.TermID,
	)
	if err != nil {
		return err
	}

	file.IsActive = true
	file.Status = model.StatusPending
	file.UploadDate = time.Now().UTC()
	file.UpdatedAt = file.UploadDate

	result, err := tx.ExecContext(ctx,
		`INSERT INTO academic_load_files
		 (faculty_id, school_id, term_id, version, is_active, status, s3_path,
		  original_filename, user_name, notes, upload_date, updated_at)
		 VALUES (?, ?, ?, ?, 1, ?, ?, ?, ?, ?, ?, ?)`,
		file.FacultyID, file.SchoolID, file.TermID, file.Version, file.Status,
		file.S3Path, file.OriginalFilename, file.UserName, file.Notes,
		file.UploadDate, file.UpdatedAt,
	)
	if err != nil {
		return err
	}

	file.ID, err = result.LastInsertId()
	if err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteFile removes the record and its staged entries. When the record
// was the active version, the highest remaining version in its group is
// promoted in the same transaction.
func (r *repository) DeleteFile(ctx context.Context, fileID int64) (*model.AcademicLoadFile, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var facultyID, schoolID, termID int64
	var wasActive bool
	err = tx.QueryRowContext(ctx,
		`SELECT faculty_id, school_id, term_id, is_active
		 FROM academic_load_files WHERE id = ? FOR UPDATE`, fileID,
	).Scan(&facultyID, &schoolID, &termID, &wasActive)
	if err == sql.ErrNoRows {
		return nil, false, apperrors.ErrFileNotFound
	}
	if err != nil {
		return nil, false, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM load_entries WHERE file_id = ?`, fileID); err != nil {
		return nil, false, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM academic_load_files WHERE id = ?`, fileID); err != nil {
		return nil, false, err
	}

	var promoted *model.AcademicLoadFile
	if wasActive {
		var promotedID sql.NullInt64
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM academic_load_files
			 WHERE faculty_id = ? AND school_id = ? AND term_id = ?
			 ORDER BY version DESC LIMIT 1 FOR UPDATE`,
			facultyID, schoolID, termID,
		).Scan(&promotedID)
		if err != nil && err != sql.ErrNoRows {
			return nil, false, err
		}

		if promotedID.Valid {
			_, err = tx.ExecContext(ctx,
				`UPDATE academic_load_files SET is_active = 1, updated_at = NOW() WHERE id = ?`,
				promotedID.Int64,
			)
			if err != nil {
				return nil, false, err
			}
			promoted = &model.AcademicLoadFile{ID: promotedID.Int64}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	if promoted != nil {
		full, err := r.GetFile(ctx, promoted.ID)
		if err == nil {
			promoted = full
		}
	}

	return promoted, wasActive, nil
}

func (r *repository) UpdateFileStatus(ctx context.Context, fileID int64, status model.IngestionStatus, notes *string) error {
	if !status.Valid() {
		return apperrors.ErrUnknownStatus
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE academic_load_files SET status = ?, notes = ?, updated_at = NOW() WHERE id = ?`,
		status, notes, fileID,
	)
	return err
}

func (r *repository) InsertEntries(ctx context.Context, fileID int64, rows []model.LoadRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO load_entries
		(file_id, course_code, course_name, professor_id, professor_name, group_count, weekly_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, row := range rows {
		_, err := tx.ExecContext(ctx, query, fileID, row.CourseCode, row.CourseName,
			row.ProfessorID, row.ProfessorName, row.GroupCount, row.WeeklyHours)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetFileStatus(ctx context.Context, fileID int64) (*model.StatusResponse, error) {
	file, err := r.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	var total int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM load_entries WHERE file_id = ?`, fileID,
	).Scan(&total)
	if err != nil {
		return nil, err
	}

	resp := &model.StatusResponse{
		FileID:       fileID,
		Status:       string(file.Status),
		TotalEntries: total,
		UpdatedAt:    file.UpdatedAt,
	}
	if file.Status == model.StatusFailed && file.Notes != nil {
		resp.Errors = append(resp.Errors, *file.Notes)
	}

	return resp, nil
}

func (r *repository) ListBillingReports(ctx context.Context) ([]model.BillingReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, academic_load_file_id FROM billing_reports`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.BillingReport
	for rows.Next() {
		var rep model.BillingReport
		if err := rows.Scan(&rep.ID, &rep.AcademicLoadFileID); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}

func (r *repository) BillingReportFileIDs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT academic_load_file_id FROM billing_reports`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}

	return ids, rows.Err()
}
