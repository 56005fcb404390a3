package excel

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
	"github.com/xzeggaedu/fica-academic-sub002/pkg/errors"

	"github.com/xuri/excelize/v2"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(ctx context.Context, data []byte) ([]model.LoadRow, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ErrInvalidFileFormat
	}

	sheetName := sheets[0]
	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	if len(rows) < 2 { // Header + at least one data row
		return nil, errors.ErrInvalidFileFormat
	}

	// Parse header to find column indices
	header := rows[0]
	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	requiredColumns := []string{"course_code", "course_name", "professor_id", "professor_name", "group_count", "weekly_hours"}
	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var loads []model.LoadRow
	for i, row := range rows[1:] { // Skip header
		if len(row) < len(requiredColumns) {
			continue // Skip incomplete rows
		}

		load, err := p.parseRow(row, columnMap, i+2) // i+2 for actual row number
		if err != nil {
			return nil, fmt.Errorf("error parsing row %d: %w", i+2, err)
		}

		loads = append(loads, *load)
	}

	return loads, nil
}

func (p *Parser) parseRow(row []string, columnMap map[string]int, rowNum int) (*model.LoadRow, error) {
	getValue := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	courseCode := getValue("course_code")
	if courseCode == "" {
		return nil, fmt.Errorf("course_code is required")
	}

	courseName := getValue("course_name")
	if courseName == "" {
		return nil, fmt.Errorf("course_name is required")
	}

	professorID := getValue("professor_id")
	if professorID == "" {
		return nil, fmt.Errorf("professor_id is required")
	}

	professorName := getValue("professor_name")
	if professorName == "" {
		return nil, fmt.Errorf("professor_name is required")
	}

	groupCountStr := getValue("group_count")
	groupCount, err := strconv.Atoi(groupCountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid group_count value: %s", groupCountStr)
	}

	hoursStr := getValue("weekly_hours")
	weeklyHours, err := strconv.ParseFloat(hoursStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid weekly_hours value: %s", hoursStr)
	}

	return &model.LoadRow{
		CourseCode:    courseCode,
		CourseName:    courseName,
		ProfessorID:   professorID,
		ProfessorName: professorName,
		GroupCount:    groupCount,
		WeeklyHours:   weeklyHours,
	}, nil
}
