// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/runoshun/della/internal/domain"
	"github.com/runoshun/della/internal/infra/config"
	"github.com/runoshun/della/internal/infra/crypto"
	"github.com/runoshun/della/internal/infra/dates"
	"github.com/runoshun/della/internal/infra/filestore"
	"github.com/runoshun/della/internal/infra/history"
	"github.com/runoshun/della/internal/infra/idgen"
	"github.com/runoshun/della/internal/infra/logging"
	"github.com/runoshun/della/internal/infra/remote"
	"github.com/runoshun/della/internal/usecase"
)

// Options selects where the container reads its configuration from.
type Options struct {
	ConfigPath string // Config file (default config path when empty)
	DataDir    string // Data directory (XDG data dir when empty)
	Stderr     io.Writer
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks         domain.TaskRepository
	Remote        domain.Remote  // nil when [remote] is disabled
	History       domain.History // nil when [history] is disabled
	IDs           domain.IDGenerator
	Dates         domain.DateExtractor
	Clock         domain.Clock
	Logger        domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Config *domain.Config
	Stderr *slog.Logger

	fileLogger *logging.Logger
	dataDir    string
}

// New builds a Container from the configuration file.
// A history repository that cannot be opened is reported as a config
// warning and history stays disabled.
func New(opts Options) (*Container, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var loader *config.Loader
	if opts.ConfigPath != "" {
		home, _ := os.UserHomeDir()
		loader = config.NewLoaderWithPath(opts.ConfigPath, home)
	} else {
		loader = config.NewLoader()
	}

	cfg, err := loader.Load()
	if err != nil {
		cfg = domain.NewDefaultConfig()
		cfg.Warnings = append(cfg.Warnings, err.Error()+" (using defaults)")
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	cfg.ResolvePaths(dataDir)

	fileLogger := logging.New(dataDir, logging.ParseLevel(cfg.Log.Level))

	tasks, err := filestore.New(cfg.Tasks.Path)
	if err != nil {
		return nil, fmt.Errorf("open task file: %w", err)
	}

	c := &Container{
		Tasks:         tasks,
		IDs:           idgen.New(idgen.DefaultLength),
		Dates:         dates.New(),
		Clock:         domain.RealClock{},
		Logger:        fileLogger,
		ConfigLoader:  loader,
		ConfigManager: config.NewManager(loader.Path()),
		Config:        cfg,
		Stderr:        logging.NewStderr(stderr, logging.ParseLevel(cfg.Log.Level)),
		fileLogger:    fileLogger,
		dataDir:       dataDir,
	}

	if cfg.Remote.Enabled {
		r, err := newRemote(cfg.Remote, fileLogger)
		if err != nil {
			return nil, err
		}
		if r != nil {
			c.Remote = r
		}
	}

	if cfg.History.Enabled {
		h, err := history.Open(cfg.History.Dir, cfg.Tasks.Path)
		if err != nil {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("history disabled: %v", err))
			fileLogger.Warn("history", err.Error())
		} else {
			c.History = h
		}
	}

	return c, nil
}

// newRemote builds the SSH remote. A missing encryption key is fatal so
// that a misconfigured machine never pushes plaintext.
func newRemote(cfg domain.RemoteConfig, logger domain.Logger) (*remote.SSH, error) {
	var enc *crypto.Encryptor
	if cfg.EncryptionKeyFile != "" {
		e, err := crypto.LoadEncryptor(cfg.EncryptionKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load encryption key: %w", err)
		}
		enc = e
	}
	r, err := remote.New(cfg, enc, logger)
	if err != nil {
		if errors.Is(err, domain.ErrRemoteDisabled) {
			return nil, nil
		}
		return nil, fmt.Errorf("configure remote: %w", err)
	}
	return r, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *domain.Config, tasks domain.TaskRepository, dates domain.DateExtractor, clock domain.Clock, logger domain.Logger) *Container {
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	return &Container{
		Tasks:  tasks,
		Dates:  dates,
		Clock:  clock,
		Logger: logger,
		IDs:    idgen.New(idgen.DefaultLength),
		Config: cfg,
		Stderr: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Close releases the log file.
func (c *Container) Close() error {
	if c.fileLogger == nil {
		return nil
	}
	return c.fileLogger.Close()
}

// DataDir returns the directory holding logs, history and the default task file.
func (c *Container) DataDir() string {
	return c.dataDir
}

// Parser returns a line parser configured from [tasks].
func (c *Container) Parser() *domain.Parser {
	return domain.NewParser(c.Dates, c.Clock, domain.WithImplicitTarget(c.Config.Tasks.ImplicitTarget))
}

// DeletePolicy returns the configured delete policy, or cascade when the value is invalid.
func (c *Container) DeletePolicy() domain.DeletePolicy {
	p, err := domain.ParseDeletePolicy(c.Config.Tasks.DeletePolicy)
	if err != nil {
		return domain.DeleteCascade
	}
	return p
}

// UseCase factory methods

// OpenSessionUseCase returns a new OpenSession use case.
func (c *Container) OpenSessionUseCase() *usecase.OpenSession {
	return usecase.NewOpenSession(c.Tasks, c.Remote, c.Logger)
}

// CloseSessionUseCase returns a new CloseSession use case.
func (c *Container) CloseSessionUseCase() *usecase.CloseSession {
	return usecase.NewCloseSession(c.Tasks, c.Remote, c.History, c.Clock, c.Logger)
}

// RunLineUseCase returns a new RunLine use case that asks prompter on ambiguity.
func (c *Container) RunLineUseCase(prompter domain.Prompter) *usecase.RunLine {
	return usecase.NewRunLine(c.Parser(), prompter, c.IDs, c.Logger)
}

// SyncTasksUseCase returns a new SyncTasks use case.
func (c *Container) SyncTasksUseCase() *usecase.SyncTasks {
	return usecase.NewSyncTasks(c.Tasks, c.Remote, c.Logger)
}

// ListHistoryUseCase returns a new ListHistory use case.
func (c *Container) ListHistoryUseCase() *usecase.ListHistory {
	return usecase.NewListHistory(c.History)
}

// RestoreHistoryUseCase returns a new RestoreHistory use case.
func (c *Container) RestoreHistoryUseCase() *usecase.RestoreHistory {
	return usecase.NewRestoreHistory(c.Tasks, c.History, c.Clock, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
