package usecase

import (
	"context"

	"github.com/runoshun/della/internal/domain"
)

// ListTasksInput contains the parameters for listing a subtree.
type ListTasksInput struct {
	Tree   *domain.Tree
	Target string // Address of the subtree root ("" = current context)
}

// ListTasksOutput contains the subtree to display.
type ListTasksOutput struct {
	Root *domain.Task
}

// ListTasks is the use case for showing a subtree.
type ListTasks struct {
	resolver targetResolver
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(prompter domain.Prompter) *ListTasks {
	return &ListTasks{
		resolver: targetResolver{prompter: prompter},
	}
}

// Execute resolves the subtree root.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	root, err := uc.resolver.resolve(in.Tree, in.Target)
	if err != nil {
		return nil, err
	}
	return &ListTasksOutput{Root: root}, nil
}
