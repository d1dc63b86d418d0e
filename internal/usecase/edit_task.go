package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/della/internal/domain"
)

// EditTaskInput contains the parameters for editing a task.
// Only non-empty fields are applied.
type EditTaskInput struct {
	Tree    *domain.Tree
	Due     *domain.Date // New due date (nil = no change)
	Target  string       // Address of the task (required)
	Content string       // New content ("" = no change)
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task
	From string // Path before the edit
}

// EditTask is the use case for renaming a task or changing its due date.
type EditTask struct {
	logger   domain.Logger
	resolver targetResolver
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(prompter domain.Prompter, logger domain.Logger) *EditTask {
	return &EditTask{
		resolver: targetResolver{prompter: prompter},
		logger:   loggerOrNop(logger),
	}
}

// Execute applies the edit. Nothing changes if either part fails.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if in.Content == "" && in.Due == nil {
		return nil, domain.ErrNothingToChange
	}
	if in.Target == "" {
		return nil, domain.ErrMissingTarget
	}
	task, err := uc.resolver.resolve(in.Tree, in.Target)
	if err != nil {
		return nil, err
	}
	if task.IsRoot() {
		return nil, fmt.Errorf("%w: cannot edit the root task", domain.ErrInvalidOperation)
	}

	from := task.Path()
	if in.Content != "" {
		if err := in.Tree.Rename(task, in.Content); err != nil {
			return nil, err
		}
	}
	if in.Due != nil {
		if err := in.Tree.SetDue(task, *in.Due); err != nil {
			return nil, err
		}
	}

	uc.logger.Info("task", fmt.Sprintf("edited %q", from))
	return &EditTaskOutput{Task: task, From: from}, nil
}
