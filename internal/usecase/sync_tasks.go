package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/della/internal/domain"
)

// SyncDirection selects how SyncTasks reconciles the copies.
type SyncDirection string

// Sync directions.
const (
	SyncAuto SyncDirection = "auto" // Newer meta.timestamp wins
	SyncPull SyncDirection = "pull" // Remote replaces local
	SyncPush SyncDirection = "push" // Local replaces remote
)

// ParseSyncDirection parses a direction name. An empty name yields SyncAuto.
func ParseSyncDirection(s string) (SyncDirection, error) {
	switch d := SyncDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return SyncAuto, nil
	case SyncAuto, SyncPull, SyncPush:
		return d, nil
	default:
		return "", fmt.Errorf("%w: unknown sync direction %q", domain.ErrValidation, s)
	}
}

// SyncAction is what SyncTasks did.
type SyncAction string

// Sync actions.
const (
	SyncPulled   SyncAction = "pulled"
	SyncPushed   SyncAction = "pushed"
	SyncUpToDate SyncAction = "up to date"
)

// SyncTasksInput contains the parameters for syncing.
type SyncTasksInput struct {
	Direction SyncDirection
}

// SyncTasksOutput contains the result of syncing.
// Fields are ordered to minimize memory padding.
type SyncTasksOutput struct {
	Action     SyncAction
	Remote     string // Remote location
	LocalMeta  domain.Meta
	RemoteMeta domain.Meta
}

// SyncTasks reconciles the local task file with the remote copy.
type SyncTasks struct {
	tasks  domain.TaskRepository
	remote domain.Remote
	logger domain.Logger
}

// NewSyncTasks creates a new SyncTasks use case. A nil remote makes Execute fail with ErrRemoteDisabled.
func NewSyncTasks(tasks domain.TaskRepository, remote domain.Remote, logger domain.Logger) *SyncTasks {
	return &SyncTasks{
		tasks:  tasks,
		remote: remote,
		logger: loggerOrNop(logger),
	}
}

// Execute syncs while holding the task file lock.
func (uc *SyncTasks) Execute(ctx context.Context, in SyncTasksInput) (*SyncTasksOutput, error) {
	if uc.remote == nil {
		return nil, domain.ErrRemoteDisabled
	}
	direction := in.Direction
	if direction == "" {
		direction = SyncAuto
	}

	if err := uc.tasks.Lock(); err != nil {
		return nil, fmt.Errorf("lock task file: %w", err)
	}
	defer func() { _ = uc.tasks.Unlock() }()

	out := &SyncTasksOutput{Remote: uc.remote.Describe(), Action: SyncUpToDate}

	local, err := uc.tasks.ReadRaw()
	if err != nil {
		return nil, fmt.Errorf("read local tasks: %w", err)
	}
	if local != nil {
		if _, out.LocalMeta, err = uc.tasks.Codec().Decode(local); err != nil {
			return nil, fmt.Errorf("decode local tasks: %w", err)
		}
	}

	remote, err := uc.remote.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if remote != nil {
		if _, out.RemoteMeta, err = uc.tasks.Codec().Decode(remote); err != nil {
			return nil, fmt.Errorf("decode remote tasks: %w", err)
		}
	}

	switch direction {
	case SyncPull:
		if remote == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoTaskFile, out.Remote)
		}
		out.Action = SyncPulled
	case SyncPush:
		if local == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoTaskFile, uc.tasks.Path())
		}
		out.Action = SyncPushed
	default:
		switch {
		case local == nil && remote == nil:
		case remote == nil, local != nil && out.LocalMeta.Newer(out.RemoteMeta):
			out.Action = SyncPushed
		case local == nil, out.RemoteMeta.Newer(out.LocalMeta):
			out.Action = SyncPulled
		}
	}

	switch out.Action {
	case SyncPulled:
		if err := uc.tasks.WriteRaw(remote); err != nil {
			return nil, fmt.Errorf("write local tasks: %w", err)
		}
	case SyncPushed:
		if err := uc.remote.Push(ctx, local); err != nil {
			return nil, err
		}
	}

	uc.logger.Info("sync", fmt.Sprintf("%s %s (%s)", direction, out.Remote, out.Action))
	return out, nil
}
