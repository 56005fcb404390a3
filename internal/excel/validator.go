package excel

import (
	"context"
	"regexp"

	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
	"github.com/xzeggaedu/fica-academic-sub002/pkg/errors"
)

type Validator struct {
	courseCodeRegex  *regexp.Regexp
	professorIDRegex *regexp.Regexp
}

func NewValidator() *Validator {
	return &Validator{
		courseCodeRegex:  regexp.MustCompile(`^[A-Z]{2,5}[0-9]{3,4}$`),
		professorIDRegex: regexp.MustCompile(`^[A-Z0-9]{4,20}$`),
	}
}

func (v *Validator) Validate(ctx context.Context, loads []model.LoadRow) error {
	if len(loads) == 0 {
		return errors.ErrSchemaValidation
	}

	for i, load := range loads {
		if err := v.validateRow(load, i+1); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) validateRow(load model.LoadRow, rowNum int) error {
	if !v.courseCodeRegex.MatchString(load.CourseCode) {
		return errors.ValidationError{
			Field:   "course_code",
			Value:   load.CourseCode,
			Message: "must be 2-5 uppercase letters followed by 3-4 digits",
		}
	}

	if !v.professorIDRegex.MatchString(load.ProfessorID) {
		return errors.ValidationError{
			Field:   "professor_id",
			Value:   load.ProfessorID,
			Message: "must be 4-20 alphanumeric characters",
		}
	}

	if len(load.CourseName) == 0 || len(load.CourseName) > 200 {
		return errors.ValidationError{
			Field:   "course_name",
			Value:   load.CourseName,
			Message: "must be between 1 and 200 characters",
		}
	}

	if len(load.ProfessorName) == 0 || len(load.ProfessorName) > 150 {
		return errors.ValidationError{
			Field:   "professor_name",
			Value:   load.ProfessorName,
			Message: "must be between 1 and 150 characters",
		}
	}

	if load.GroupCount < 1 || load.GroupCount > 50 {
		return errors.ValidationError{
			Field:   "group_count",
			Value:   load.GroupCount,
			Message: "must be between 1 and 50",
		}
	}

	if load.WeeklyHours <= 0 || load.WeeklyHours > 60 {
		return errors.ValidationError{
			Field:   "weekly_hours",
			Value:   load.WeeklyHours,
			Message: "must be between 0 and 60",
		}
	}

	return nil
}
