package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/della/internal/domain"
)

// AddTaskInput contains the parameters for adding a task.
// Fields are ordered to minimize memory padding.
type AddTaskInput struct {
	Tree    *domain.Tree
	Content string      // Task content (required)
	Target  string      // Parent address ("" = current context)
	Due     domain.Date // Due date (zero = none)
}

// AddTaskOutput contains the result of adding a task.
type AddTaskOutput struct {
	Task *domain.Task // The created task
}

// AddTask is the use case for creating a task.
type AddTask struct {
	logger   domain.Logger
	resolver targetResolver
}

// NewAddTask creates a new AddTask use case.
func NewAddTask(prompter domain.Prompter, logger domain.Logger) *AddTask {
	return &AddTask{
		resolver: targetResolver{prompter: prompter},
		logger:   loggerOrNop(logger),
	}
}

// Execute creates a task under the target.
func (uc *AddTask) Execute(_ context.Context, in AddTaskInput) (*AddTaskOutput, error) {
	parent, err := uc.resolver.resolve(in.Tree, in.Target)
	if err != nil {
		return nil, err
	}

	task, err := in.Tree.AddTask(in.Content, parent, in.Due)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("task", fmt.Sprintf("added %q under %q", task.Path(), parent.Path()))
	return &AddTaskOutput{Task: task}, nil
}
