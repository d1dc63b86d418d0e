package domain

import (
	"context"
	"time"
)

// Meta is the versioning header stored alongside the task tree.
type Meta struct {
	Timestamp int64 // Unix milliseconds of the last save
	Version   int   // File layout version
}

// CurrentFileVersion is the task file layout written by this build.
const CurrentFileVersion = 1

// Newer reports whether m was saved after other.
func (m Meta) Newer(other Meta) bool {
	return m.Timestamp > other.Timestamp
}

// TaskCodec converts a tree to and from its serialized form.
type TaskCodec interface {
	Encode(tree *Tree, meta Meta) ([]byte, error)
	Decode(data []byte) (*Tree, Meta, error)
}

// TaskRepository persists the task tree.
type TaskRepository interface {
	// Load reads the tree. A missing file yields an empty tree and zero Meta.
	Load() (*Tree, Meta, error)

	// Save writes the tree with the given meta.
	Save(tree *Tree, meta Meta) error

	// ReadRaw returns the stored bytes, or nil if the file does not exist.
	ReadRaw() ([]byte, error)

	// WriteRaw replaces the stored bytes.
	WriteRaw(data []byte) error

	// Codec returns the codec matching the stored format.
	Codec() TaskCodec

	// Path returns the location of the task file.
	Path() string

	// Lock takes the session lock. It fails with ErrLocked if another process holds it.
	Lock() error

	// Unlock releases the session lock.
	Unlock() error
}

// DateExtractor finds the last date expression in free text.
type DateExtractor interface {
	// Extract returns nil when text contains no date expression.
	Extract(text string, base time.Time) (*DateMatch, error)
}

// Prompter asks the user to resolve ambiguity during a command.
type Prompter interface {
	// ChooseTask picks one of several candidates. It returns ErrNoChoice when cancelled.
	ChooseTask(candidates []*Task) (*Task, error)

	// ConfirmDelete asks whether task and its descendants may be deleted.
	ConfirmDelete(task *Task, descendants int) (bool, error)
}

// Remote stores a copy of the task file on another machine.
type Remote interface {
	// Fetch returns the remote bytes, or nil if the remote file does not exist.
	Fetch(ctx context.Context) ([]byte, error)

	// Push replaces the remote bytes.
	Push(ctx context.Context, data []byte) error

	// Describe returns a human-readable location such as user@host:path.
	Describe() string
}

// Snapshot is one recorded version of the task file.
type Snapshot struct {
	Time    time.Time
	Hash    string
	Message string
}

// History keeps past versions of the task file.
type History interface {
	// Record stores data as a new snapshot. It returns "" when nothing changed.
	Record(ctx context.Context, data []byte, message string) (string, error)

	// List returns the most recent snapshots, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Snapshot, error)

	// Get returns the data recorded at rev.
	Get(ctx context.Context, rev string) ([]byte, error)
}

// IDGenerator produces fresh unique ids.
type IDGenerator interface {
	NewID() string
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global file).
	Load() (*Config, error)
}

// ConfigInfo describes a configuration file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager shows and creates configuration files.
type ConfigManager interface {
	GetConfigInfo() ConfigInfo
	InitConfig(cfg *Config, force bool) error
}

// Logger provides logging functionality.
type Logger interface {
	Info(category, msg string)
	Debug(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
