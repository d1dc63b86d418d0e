package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/della/internal/domain"
)

// SearchTasksInput contains the search query.
type SearchTasksInput struct {
	Tree  *domain.Tree
	Query string
}

// SearchTasksOutput contains the matches in search order.
type SearchTasksOutput struct {
	Matches []*domain.Task
}

// SearchTasks is the use case for finding tasks by path suffix.
type SearchTasks struct{}

// NewSearchTasks creates a new SearchTasks use case.
func NewSearchTasks() *SearchTasks {
	return &SearchTasks{}
}

// Execute runs the search. Multi-word queries are joined into one slug.
func (uc *SearchTasks) Execute(_ context.Context, in SearchTasksInput) (*SearchTasksOutput, error) {
	query := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(in.Query), domain.IDMarker))
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrValidation)
	}
	return &SearchTasksOutput{Matches: in.Tree.Search(query)}, nil
}
