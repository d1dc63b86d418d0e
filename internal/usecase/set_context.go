package usecase

import (
	"context"

	"github.com/runoshun/della/internal/domain"
)

// SetContextInput contains the parameters for changing the current context.
type SetContextInput struct {
	Tree   *domain.Tree
	Target string // Address of the new context
	Home   bool   // Reset to the root, ignoring Target
}

// SetContextOutput contains the new context.
type SetContextOutput struct {
	Context *domain.Task
}

// SetContext is the use case for moving the current context.
type SetContext struct {
	logger   domain.Logger
	resolver targetResolver
}

// NewSetContext creates a new SetContext use case.
func NewSetContext(prompter domain.Prompter, logger domain.Logger) *SetContext {
	return &SetContext{
		resolver: targetResolver{prompter: prompter},
		logger:   loggerOrNop(logger),
	}
}

// Execute changes the context.
func (uc *SetContext) Execute(_ context.Context, in SetContextInput) (*SetContextOutput, error) {
	if in.Home {
		in.Tree.Home()
		return &SetContextOutput{Context: in.Tree.Context()}, nil
	}
	if in.Target == "" {
		return nil, domain.ErrMissingTarget
	}
	task, err := uc.resolver.resolve(in.Tree, in.Target)
	if err != nil {
		return nil, err
	}
	if err := in.Tree.SetContext(task); err != nil {
		return nil, err
	}
	uc.logger.Debug("task", "context set to "+task.Path())
	return &SetContextOutput{Context: task}, nil
}
