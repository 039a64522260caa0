package ports

import (
	"context"
	"io"

	"github.com/lorrc/employee-identifier/internal/core/domain"
)

// RecordParser turns raw delimited input into work period records.
// Malformed rows are dropped; only failures reading the stream are returned.
type RecordParser interface {
	Parse(ctx context.Context, input io.Reader) ([]domain.WorkPeriodRecord, error)
}

// CollaborationAnalyzer finds the pair of employees with the longest shared time
// on common projects. The boolean is false when no pair overlaps at all.
type CollaborationAnalyzer interface {
	Analyze(ctx context.Context, records []domain.WorkPeriodRecord) (domain.CollaborationResult, bool)
}

// CollaborationService defines the port used by primary adapters: it parses an
// uploaded stream and reports the longest collaboration found in it.
type CollaborationService interface {
	AnalyzeCollaborations(ctx context.Context, input io.Reader) (*domain.CollaborationResult, error)
}
