// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/della/internal/domain"
)

// SourceLocal marks a session loaded from the local task file.
const SourceLocal = "local"

// Session is an open task file held in memory between commands.
// Fields are ordered to minimize memory padding.
type Session struct {
	Tree   *domain.Tree
	Source string // SourceLocal, or the remote location when its copy was newer
	Meta   domain.Meta
	Dirty  bool // Tree changed since it was loaded or saved
	locked bool
}

// OpenSessionInput contains the parameters for opening a session.
type OpenSessionInput struct {
	DeletePolicy domain.DeletePolicy // Policy applied to the loaded tree ("" keeps cascade)
	Lock         bool                // Hold the task file lock until CloseSession
}

// OpenSessionOutput contains the result of opening a session.
type OpenSessionOutput struct {
	Session  *Session
	Warnings []string // Non-fatal remote problems
	Pulled   bool     // The remote copy was newer and replaced the local file
}

// OpenSession loads the task tree, preferring a newer remote copy.
type OpenSession struct {
	tasks  domain.TaskRepository
	remote domain.Remote
	logger domain.Logger
}

// NewOpenSession creates a new OpenSession use case. remote may be nil.
func NewOpenSession(tasks domain.TaskRepository, remote domain.Remote, logger domain.Logger) *OpenSession {
	return &OpenSession{
		tasks:  tasks,
		remote: remote,
		logger: loggerOrNop(logger),
	}
}

// Execute opens the session.
func (uc *OpenSession) Execute(ctx context.Context, in OpenSessionInput) (*OpenSessionOutput, error) {
	if in.Lock {
		if err := uc.tasks.Lock(); err != nil {
			return nil, fmt.Errorf("lock task file: %w", err)
		}
	}

	tree, meta, err := uc.tasks.Load()
	if err != nil {
		uc.release(in.Lock)
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	s := &Session{Tree: tree, Meta: meta, Source: SourceLocal, locked: in.Lock}
	out := &OpenSessionOutput{Session: s}

	if uc.remote != nil {
		if warn := uc.pull(ctx, s); warn != "" {
			uc.logger.Warn("sync", warn)
			out.Warnings = append(out.Warnings, warn)
		}
		out.Pulled = s.Source != SourceLocal
	}

	if in.DeletePolicy != "" {
		s.Tree.SetDeletePolicy(in.DeletePolicy)
	}

	uc.logger.Info("session", fmt.Sprintf("opened %s from %s (%d tasks)", uc.tasks.Path(), s.Source, s.Tree.Len()))
	return out, nil
}

// pull adopts the remote copy when it is newer. It returns a warning on failure.
func (uc *OpenSession) pull(ctx context.Context, s *Session) string {
	data, err := uc.remote.Fetch(ctx)
	if err != nil {
		return fmt.Sprintf("remote unavailable, using local tasks: %v", err)
	}
	if data == nil {
		return ""
	}
	tree, meta, err := uc.tasks.Codec().Decode(data)
	if err != nil {
		return fmt.Sprintf("remote copy is unreadable, using local tasks: %v", err)
	}
	if !meta.Newer(s.Meta) {
		return ""
	}
	if err := uc.tasks.WriteRaw(data); err != nil {
		return fmt.Sprintf("could not store remote copy locally: %v", err)
	}
	s.Tree, s.Meta, s.Source = tree, meta, uc.remote.Describe()
	uc.logger.Info("sync", fmt.Sprintf("pulled newer copy from %s", s.Source))
	return ""
}

func (uc *OpenSession) release(locked bool) {
	if !locked {
		return
	}
	if err := uc.tasks.Unlock(); err != nil {
		uc.logger.Warn("session", "unlock task file: "+err.Error())
	}
}

// CloseSessionInput contains the parameters for closing a session.
type CloseSessionInput struct {
	Session *Session
	Message string // Snapshot message ("" uses a timestamp)
}

// CloseSessionOutput contains the result of closing a session.
// Fields are ordered to minimize memory padding.
type CloseSessionOutput struct {
	Snapshot string   // History hash, "" when nothing was recorded
	Warnings []string // Non-fatal history or remote problems
	Saved    bool
	Pushed   bool
}

// CloseSession saves a changed tree, records history, pushes to the remote and unlocks.
// Fields are ordered to minimize memory padding.
type CloseSession struct {
	tasks   domain.TaskRepository
	remote  domain.Remote
	history domain.History
	clock   domain.Clock
	logger  domain.Logger
}

// NewCloseSession creates a new CloseSession use case. remote and history may be nil.
func NewCloseSession(tasks domain.TaskRepository, remote domain.Remote, history domain.History, clock domain.Clock, logger domain.Logger) *CloseSession {
	return &CloseSession{
		tasks:   tasks,
		remote:  remote,
		history: history,
		clock:   clock,
		logger:  loggerOrNop(logger),
	}
}

// Execute closes the session. The lock is released even when saving fails.
func (uc *CloseSession) Execute(ctx context.Context, in CloseSessionInput) (*CloseSessionOutput, error) {
	s := in.Session
	if s == nil {
		return nil, fmt.Errorf("%w: no open session", domain.ErrInvalidOperation)
	}
	defer func() {
		if !s.locked {
			return
		}
		if err := uc.tasks.Unlock(); err != nil {
			uc.logger.Warn("session", "unlock task file: "+err.Error())
		}
		s.locked = false
	}()

	out := &CloseSessionOutput{}
	if !s.Dirty {
		return out, nil
	}

	meta := domain.Meta{
		Timestamp: nextTimestamp(uc.clock, s.Meta),
		Version:   domain.CurrentFileVersion,
	}
	if err := uc.tasks.Save(s.Tree, meta); err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}
	s.Meta = meta
	s.Dirty = false
	out.Saved = true
	uc.logger.Info("session", fmt.Sprintf("saved %d tasks to %s", s.Tree.Len(), uc.tasks.Path()))

	if uc.history == nil && uc.remote == nil {
		return out, nil
	}
	data, err := uc.tasks.ReadRaw()
	if err != nil {
		return nil, fmt.Errorf("read saved tasks: %w", err)
	}

	if uc.history != nil {
		msg := in.Message
		if msg == "" {
			msg = "save " + time.UnixMilli(meta.Timestamp).Format(time.RFC3339)
		}
		hash, err := uc.history.Record(ctx, data, msg)
		if err != nil {
			out.Warnings = append(out.Warnings, "history not recorded: "+err.Error())
			uc.logger.Warn("history", err.Error())
		} else {
			out.Snapshot = hash
		}
	}

	if uc.remote != nil {
		if err := uc.remote.Push(ctx, data); err != nil {
			out.Warnings = append(out.Warnings, "remote not updated: "+err.Error())
			uc.logger.Warn("sync", err.Error())
		} else {
			out.Pushed = true
			uc.logger.Info("sync", "pushed to "+uc.remote.Describe())
		}
	}
	return out, nil
}

// nextTimestamp returns the current time in milliseconds, kept strictly above prev.
func nextTimestamp(clock domain.Clock, prev domain.Meta) int64 {
	now := clock.Now().UnixMilli()
	if now <= prev.Timestamp {
		return prev.Timestamp + 1
	}
	return now
}

type nopLogger struct{}

func (nopLogger) Info(string, string)  {}
func (nopLogger) Debug(string, string) {}
func (nopLogger) Warn(string, string)  {}
func (nopLogger) Error(string, string) {}

func loggerOrNop(l domain.Logger) domain.Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
