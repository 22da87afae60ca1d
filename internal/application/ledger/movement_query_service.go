package ledger

import (
	"context"

	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
)

// MovementQueryService serves read-only views over the append-only
// movement log. It never mutates.
type MovementQueryService struct {
	movements ledger.MovementRepository
}

// NewMovementQueryService creates the query service
func NewMovementQueryService(movements ledger.MovementRepository) *MovementQueryService {
	return &MovementQueryService{movements: movements}
}

// List returns one page of movements, newest first. Large date ranges
// are consumed page by page; the query is restartable at any page.
func (s *MovementQueryService) List(ctx context.Context, query MovementListQuery) ([]MovementResponse, int64, error) {
	filter := toMovementFilter(query)

	movements, err := s.movements.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movements.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, *toMovementResponse(&movements[i]))
	}
	return responses, total, nil
}

// Summarize aggregates the filtered movements per type. Totals use
// unsigned magnitudes so inbound and outbound tiles are comparable.
func (s *MovementQueryService) Summarize(ctx context.Context, query MovementListQuery) (map[ledger.MovementType]ledger.MovementSummary, error) {
	summaries, err := s.movements.SummarizeByType(ctx, toMovementFilter(query))
	if err != nil {
		return nil, err
	}

	byType := make(map[ledger.MovementType]ledger.MovementSummary, len(summaries))
	for _, summary := range summaries {
		byType[summary.MovementType] = summary
	}
	return byType, nil
}

func toMovementFilter(query MovementListQuery) ledger.MovementFilter {
	base := shared.DefaultFilter()
	if query.Page > 0 {
		base.Page = query.Page
	}
	if query.PageSize > 0 {
		base.PageSize = query.PageSize
	}

	return ledger.MovementFilter{
		Filter:       base,
		ProductID:    query.ProductID,
		MovementType: query.MovementType,
		DateFrom:     query.DateFrom,
		DateTo:       query.DateTo,
	}
}
