package excel

import (
	"context"
	"testing"

	"github.com/xzeggaedu/fica-academic-sub002/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

var header = []interface{}{"course_code", "course_name", "professor_id", "professor_name", "group_count", "weekly_hours"}

func TestParseValidWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		header,
		{"MAT101", "Calculus I", "P1234", "M. Lopez", 2, 4.5},
		{"FIS201", "Physics II", "P5678", "J. Perez", 1, 6},
	})

	loads, err := NewParser().Parse(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, loads, 2)

	assert.Equal(t, "MAT101", loads[0].CourseCode)
	assert.Equal(t, "Calculus I", loads[0].CourseName)
	assert.Equal(t, "P1234", loads[0].ProfessorID)
	assert.Equal(t, 2, loads[0].GroupCount)
	assert.InDelta(t, 4.5, loads[0].WeeklyHours, 0.001)
	assert.Equal(t, "FIS201", loads[1].CourseCode)
}

func TestParseHeaderIsCaseInsensitive(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Course_Code", "COURSE_NAME", "Professor_ID", "Professor_Name", "Group_Count", "Weekly_Hours"},
		{"MAT101", "Calculus I", "P1234", "M. Lopez", 2, 4.5},
	})

	loads, err := NewParser().Parse(context.Background(), data)
	require.NoError(t, err)
	assert.Len(t, loads, 1)
}

func TestParseMissingColumn(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"course_code", "course_name", "professor_id", "professor_name", "group_count"},
		{"MAT101", "Calculus I", "P1234", "M. Lopez", 2},
	})

	_, err := NewParser().Parse(context.Background(), data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekly_hours")
}

func TestParseHeaderOnlyWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{header})

	_, err := NewParser().Parse(context.Background(), data)
	assert.ErrorIs(t, err, errors.ErrInvalidFileFormat)
}

func TestParseRejectsNonNumericHours(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		header,
		{"MAT101", "Calculus I", "P1234", "M. Lopez", 2, "many"},
	})

	_, err := NewParser().Parse(context.Background(), data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekly_hours")
}

func TestParseGarbageInput(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), []byte("not a workbook"))
	assert.Error(t, err)
}
