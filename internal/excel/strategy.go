package excel

import (
	"context"

	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
)

type ParsingStrategy interface {
	Parse(ctx context.Context, data []byte) ([]model.LoadRow, error)
	Validate(ctx context.Context, loads []model.LoadRow) error
}

type ExcelStrategy struct {
	parser    *Parser
	validator *Validator
}

func NewExcelStrategy() ParsingStrategy {
	return &ExcelStrategy{
		parser:    NewParser(),
		validator: NewValidator(),
	}
}

func (s *ExcelStrategy) Parse(ctx context.Context, data []byte) ([]model.LoadRow, error) {
	return s.parser.Parse(ctx, data)
}

func (s *ExcelStrategy) Validate(ctx context.Context, loads []model.LoadRow) error {
	return s.validator.Validate(ctx, loads)
}
