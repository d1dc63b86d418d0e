package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/runoshun/della/internal/domain"
)

// maxGeneratedIDAttempts bounds retries when a generated id collides.
const maxGeneratedIDAttempts = 8

// AssignIDInput contains the parameters for assigning a unique id.
type AssignIDInput struct {
	Tree   *domain.Tree
	Target string // Address of the task (required)
	ID     string // Requested id ("" = generate one)
}

// AssignIDOutput contains the result of assigning a unique id.
type AssignIDOutput struct {
	Task      *domain.Task
	ID        string // The id now bound to the task
	Previous  string // The id the task held before, if any
	Generated bool   // The id was generated
}

// AssignID is the use case for binding a unique id to a task.
type AssignID struct {
	ids      domain.IDGenerator
	logger   domain.Logger
	resolver targetResolver
}

// NewAssignID creates a new AssignID use case.
func NewAssignID(prompter domain.Prompter, ids domain.IDGenerator, logger domain.Logger) *AssignID {
	return &AssignID{
		ids:      ids,
		resolver: targetResolver{prompter: prompter},
		logger:   loggerOrNop(logger),
	}
}

// Execute assigns the id, generating one when none is given.
func (uc *AssignID) Execute(_ context.Context, in AssignIDInput) (*AssignIDOutput, error) {
	if in.Target == "" {
		return nil, domain.ErrMissingTarget
	}
	task, err := uc.resolver.resolve(in.Tree, in.Target)
	if err != nil {
		return nil, err
	}
	out := &AssignIDOutput{Task: task, Previous: task.UniqueID()}

	id := strings.TrimSpace(in.ID)
	if id != "" {
		if err := in.Tree.AssignID(task, id); err != nil {
			return nil, err
		}
	} else {
		if uc.ids == nil {
			return nil, fmt.Errorf("%w: no id given", domain.ErrInvalidID)
		}
		out.Generated = true
		for attempt := 0; ; attempt++ {
			id = uc.ids.NewID()
			err := in.Tree.AssignID(task, id)
			if err == nil {
				break
			}
			if !errors.Is(err, domain.ErrIdentifierConflict) || attempt+1 >= maxGeneratedIDAttempts {
				return nil, err
			}
		}
	}

	out.ID = task.UniqueID()
	uc.logger.Info("task", fmt.Sprintf("id %q bound to %q", out.ID, task.Path()))
	return out, nil
}
