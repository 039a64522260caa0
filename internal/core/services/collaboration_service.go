package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lorrc/employee-identifier/internal/core/domain"
	apperrors "github.com/lorrc/employee-identifier/internal/core/errors"
	"github.com/lorrc/employee-identifier/internal/core/ports"
)

// CollaborationService runs an uploaded stream through the parser and the analyzer.
type CollaborationService struct {
	parser   ports.RecordParser
	analyzer ports.CollaborationAnalyzer
	logger   *slog.Logger
}

var _ ports.CollaborationService = (*CollaborationService)(nil)

// NewCollaborationService creates a new collaboration service.
func NewCollaborationService(parser ports.RecordParser, analyzer ports.CollaborationAnalyzer, logger *slog.Logger) *CollaborationService {
	return &CollaborationService{
		parser:   parser,
		analyzer: analyzer,
		logger:   logger.With("service", "collaboration"),
	}
}

// AnalyzeCollaborations parses input and returns the longest collaboration.
// It returns ErrNoRecords when no line parsed and ErrNoCollaborationsFound when
// no two employees overlapped on a project. Read failures are wrapped and
// returned as-is for the caller to treat as internal errors.
func (s *CollaborationService) AnalyzeCollaborations(ctx context.Context, input io.Reader) (*domain.CollaborationResult, error) {
	records, err := s.parser.Parse(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to parse input", "error", err)
		return nil, fmt.Errorf("parse records: %w", err)
	}

	if len(records) == 0 {
		s.logger.WarnContext(ctx, "no valid records found in input")
		return nil, apperrors.ErrNoRecords
	}

	result, found := s.analyzer.Analyze(ctx, records)
	if !found {
		return nil, apperrors.ErrNoCollaborationsFound
	}

	return &result, nil
}
