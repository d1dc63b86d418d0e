package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/della/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	Tree   *domain.Tree
	Target string // Address of the task to delete (required)
}

// DeleteTaskOutput contains the result of deleting a task.
// Fields are ordered to minimize memory padding.
type DeleteTaskOutput struct {
	Task        *domain.Task // The task that was (or would have been) deleted
	Path        string       // Path of the task before deletion
	Descendants int          // Number of tasks below it
	Deleted     bool         // False when the confirmation declined
}

// DeleteTask is the use case for deleting a task after confirmation.
type DeleteTask struct {
	prompter domain.Prompter
	logger   domain.Logger
	resolver targetResolver
}

// NewDeleteTask creates a new DeleteTask use case.
// A nil prompter deletes without asking.
func NewDeleteTask(prompter domain.Prompter, logger domain.Logger) *DeleteTask {
	return &DeleteTask{
		prompter: prompter,
		resolver: targetResolver{prompter: prompter},
		logger:   loggerOrNop(logger),
	}
}

// Execute deletes the target task according to the tree's delete policy.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	if in.Target == "" {
		return nil, domain.ErrMissingTarget
	}
	task, err := uc.resolver.resolve(in.Tree, in.Target)
	if err != nil {
		return nil, err
	}

	out := &DeleteTaskOutput{
		Task:        task,
		Path:        task.Path(),
		Descendants: task.CountDescendants(),
	}

	var confirm domain.ConfirmFunc
	if uc.prompter != nil {
		confirm = uc.prompter.ConfirmDelete
	}
	deleted, err := in.Tree.DeleteTask(task, confirm)
	if err != nil {
		return nil, err
	}
	out.Deleted = deleted

	if deleted {
		uc.logger.Info("task", fmt.Sprintf("deleted %q (%s, %d descendants)", out.Path, in.Tree.Policy(), out.Descendants))
	}
	return out, nil
}
