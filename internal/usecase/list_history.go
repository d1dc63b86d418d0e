package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/della/internal/domain"
)

// ListHistoryInput contains the parameters for listing snapshots.
type ListHistoryInput struct {
	Limit int // Maximum snapshots (<= 0 = all)
}

// ListHistoryOutput contains snapshots, newest first.
type ListHistoryOutput struct {
	Snapshots []domain.Snapshot
}

// ListHistory is the use case for listing recorded snapshots.
type ListHistory struct {
	history domain.History
}

// NewListHistory creates a new ListHistory use case. A nil history makes Execute fail with ErrHistoryDisabled.
func NewListHistory(history domain.History) *ListHistory {
	return &ListHistory{history: history}
}

// Execute lists snapshots.
func (uc *ListHistory) Execute(ctx context.Context, in ListHistoryInput) (*ListHistoryOutput, error) {
	if uc.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	snapshots, err := uc.history.List(ctx, in.Limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return &ListHistoryOutput{Snapshots: snapshots}, nil
}
