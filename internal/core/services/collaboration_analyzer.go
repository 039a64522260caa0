package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/lorrc/employee-identifier/internal/core/domain"
	"github.com/lorrc/employee-identifier/internal/core/ports"
)

// CollaborationAnalyzer computes pairwise overlaps per project and picks the
// employee pair with the highest total.
type CollaborationAnalyzer struct {
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.CollaborationAnalyzer = (*CollaborationAnalyzer)(nil)

// NewCollaborationAnalyzer creates an analyzer. now supplies the date that
// open-ended periods run through; nil means time.Now.
func NewCollaborationAnalyzer(logger *slog.Logger, now func() time.Time) *CollaborationAnalyzer {
	if now == nil {
		now = time.Now
	}
	return &CollaborationAnalyzer{
		logger: logger.With("component", "collaboration_analyzer"),
		now:    now,
	}
}

type pairTotal struct {
	pair     domain.EmployeePair
	total    int
	overlaps []domain.ProjectOverlap
}

// Analyze returns the pair that spent the most days together across shared
// projects. It returns false when records is empty or nothing overlaps.
//
// Ties on the total go to the smallest pair (FirstID, then SecondID).
func (a *CollaborationAnalyzer) Analyze(ctx context.Context, records []domain.WorkPeriodRecord) (domain.CollaborationResult, bool) {
	if len(records) == 0 {
		return domain.CollaborationResult{}, false
	}

	today := domain.DateOf(a.now())
	byPair := a.collectOverlaps(records, today)
	if len(byPair) == 0 {
		a.logger.InfoContext(ctx, "no collaborations found", "records", len(records))
		return domain.CollaborationResult{}, false
	}

	totals := lo.MapToSlice(byPair, func(pair domain.EmployeePair, overlaps []domain.ProjectOverlap) pairTotal {
		total := lo.SumBy(overlaps, func(o domain.ProjectOverlap) int {
			return o.DaysOverlapped
		})
		return pairTotal{pair: pair, total: total, overlaps: overlaps}
	})

	best := lo.MaxBy(totals, func(candidate, current pairTotal) bool {
		if candidate.total != current.total {
			return candidate.total > current.total
		}
		return candidate.pair.Less(current.pair)
	})

	a.logger.InfoContext(ctx, "found longest collaboration",
		"employee_first_id", best.pair.FirstID,
		"employee_second_id", best.pair.SecondID,
		"days", best.total,
		"pairs_considered", len(totals),
	)

	return domain.CollaborationResult{
		Pair:              best.pair,
		TotalDaysTogether: best.total,
		Projects:          best.overlaps,
	}, true
}

// collectOverlaps groups records by project, in the order projects first
// appear, and compares every pair of records inside each group. Each
// qualifying comparison appends one entry to the pair's list, so duplicate
// rows are counted as often as they occur.
func (a *CollaborationAnalyzer) collectOverlaps(records []domain.WorkPeriodRecord, today time.Time) map[domain.EmployeePair][]domain.ProjectOverlap {
	projectOrder := lo.Uniq(lo.Map(records, func(r domain.WorkPeriodRecord, _ int) int {
		return r.ProjectID
	}))
	groups := lo.GroupBy(records, func(r domain.WorkPeriodRecord) int {
		return r.ProjectID
	})

	byPair := make(map[domain.EmployeePair][]domain.ProjectOverlap)
	for _, projectID := range projectOrder {
		group := groups[projectID]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				first, second := group[i], group[j]
				if first.EmployeeID == second.EmployeeID {
					continue
				}

				overlap, ok := domain.Overlap(first, second, today)
				if !ok {
					continue
				}

				pair := domain.NewEmployeePair(first.EmployeeID, second.EmployeeID)
				byPair[pair] = append(byPair[pair], overlap)
			}
		}
	}

	return byPair
}
