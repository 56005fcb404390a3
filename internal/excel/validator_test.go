package excel

import (
	"context"
	"strings"
	"testing"

	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
	"github.com/xzeggaedu/fica-academic-sub002/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func validRow() model.LoadRow {
	return model.LoadRow{
		CourseCode:    "MAT101",
		CourseName:    "Calculus I",
		ProfessorID:   "P1234",
		ProfessorName: "M. Lopez",
		GroupCount:    2,
		WeeklyHours:   4.5,
	}
}

func TestValidateAcceptsValidRows(t *testing.T) {
	err := NewValidator().Validate(context.Background(), []model.LoadRow{validRow()})
	assert.NoError(t, err)
}

func TestValidateRejectsEmptySet(t *testing.T) {
	err := NewValidator().Validate(context.Background(), nil)
	assert.ErrorIs(t, err, errors.ErrSchemaValidation)
}

func TestValidateNameMessagesStateLengthCap(t *testing.T) {
	row := validRow()
	row.CourseName = strings.Repeat("a", 201)

	err := NewValidator().Validate(context.Background(), []model.LoadRow{row})

	var vErr errors.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "200")

	row = validRow()
	row.ProfessorName = strings.Repeat("a", 151)

	err = NewValidator().Validate(context.Background(), []model.LoadRow{row})
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "150")
}

func TestValidateFieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.LoadRow)
		field  string
	}{
		{"lowercase course code", func(r *model.LoadRow) { r.CourseCode = "mat101" }, "course_code"},
		{"course code without digits", func(r *model.LoadRow) { r.CourseCode = "MATH" }, "course_code"},
		{"short professor id", func(r *model.LoadRow) { r.ProfessorID = "P1" }, "professor_id"},
		{"zero groups", func(r *model.LoadRow) { r.GroupCount = 0 }, "group_count"},
		{"too many groups", func(r *model.LoadRow) { r.GroupCount = 51 }, "group_count"},
		{"negative hours", func(r *model.LoadRow) { r.WeeklyHours = -1 }, "weekly_hours"},
		{"excessive hours", func(r *model.LoadRow) { r.WeeklyHours = 61 }, "weekly_hours"},
		{"empty course name", func(r *model.LoadRow) { r.CourseName = "" }, "course_name"},
		{"over-length course name", func(r *model.LoadRow) { r.CourseName = strings.Repeat("a", 201) }, "course_name"},
		{"empty professor name", func(r *model.LoadRow) { r.ProfessorName = "" }, "professor_name"},
		{"over-length professor name", func(r *model.LoadRow) { r.ProfessorName = strings.Repeat("a", 151) }, "professor_name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := validRow()
			tc.mutate(&row)

			err := NewValidator().Validate(context.Background(), []model.LoadRow{row})

			var vErr errors.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}
