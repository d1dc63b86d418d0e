package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/della/internal/domain"
)

// MoveTaskInput contains the parameters for moving a task.
type MoveTaskInput struct {
	Tree        *domain.Tree
	Target      string // Address of the task to move (required)
	Destination string // Address of the new parent ("" = current context)
}

// MoveTaskOutput contains the result of moving a task.
type MoveTaskOutput struct {
	Task   *domain.Task
	Parent *domain.Task
	From   string // Path before the move
}

// MoveTask is the use case for re-parenting a task.
type MoveTask struct {
	logger   domain.Logger
	resolver targetResolver
}

// NewMoveTask creates a new MoveTask use case.
func NewMoveTask(prompter domain.Prompter, logger domain.Logger) *MoveTask {
	return &MoveTask{
		resolver: targetResolver{prompter: prompter},
		logger:   loggerOrNop(logger),
	}
}

// Execute moves the target under the destination.
func (uc *MoveTask) Execute(_ context.Context, in MoveTaskInput) (*MoveTaskOutput, error) {
	if in.Target == "" {
		return nil, domain.ErrMissingTarget
	}
	task, err := uc.resolver.resolve(in.Tree, in.Target)
	if err != nil {
		return nil, err
	}
	dest := strings.TrimPrefix(strings.TrimSpace(in.Destination), domain.IDMarker)
	parent, err := uc.resolver.resolve(in.Tree, dest)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	from := task.Path()
	if err := in.Tree.MoveTask(task, parent); err != nil {
		return nil, err
	}

	uc.logger.Info("task", fmt.Sprintf("moved %q to %q", from, task.Path()))
	return &MoveTaskOutput{Task: task, Parent: parent, From: from}, nil
}
