// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/della/internal/domain"
	"github.com/runoshun/della/internal/infra/filestore"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockDateExtractor is a test double for domain.DateExtractor.
// It recognizes the words in Words and returns the last one found.
type MockDateExtractor struct {
	Words map[string]domain.Date
	Err   error
}

// NewMockDateExtractor creates an extractor knowing "today" and "tomorrow" relative to base.
func NewMockDateExtractor(base time.Time) *MockDateExtractor {
	today := domain.DateOf(base)
	return &MockDateExtractor{
		Words: map[string]domain.Date{
			"today":    today,
			"tomorrow": domain.DateOf(base.AddDate(0, 0, 1)),
		},
	}
}

// Extract returns the last known word in text.
func (m *MockDateExtractor) Extract(text string, _ time.Time) (*domain.DateMatch, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var best *domain.DateMatch
	lower := strings.ToLower(text)
	for word, date := range m.Words {
		i := strings.LastIndex(lower, word)
		if i < 0 {
			continue
		}
		if best == nil || i > best.Start {
			best = &domain.DateMatch{Text: text[i : i+len(word)], Date: date, Start: i, End: i + len(word)}
		}
	}
	return best, nil
}

// MockPrompter is a test double for domain.Prompter.
// Fields are ordered to minimize memory padding.
type MockPrompter struct {
	ChooseErr   error
	ConfirmErr  error
	Candidates  [][]*domain.Task
	Confirmed   []string
	ChooseIndex int
	Confirm     bool
}

// ChooseTask records candidates and returns the one at ChooseIndex.
// A negative ChooseIndex cancels.
func (m *MockPrompter) ChooseTask(candidates []*domain.Task) (*domain.Task, error) {
	m.Candidates = append(m.Candidates, candidates)
	if m.ChooseErr != nil {
		return nil, m.ChooseErr
	}
	if m.ChooseIndex < 0 || m.ChooseIndex >= len(candidates) {
		return nil, domain.ErrNoChoice
	}
	return candidates[m.ChooseIndex], nil
}

// ConfirmDelete records the request and returns Confirm.
func (m *MockPrompter) ConfirmDelete(task *domain.Task, descendants int) (bool, error) {
	m.Confirmed = append(m.Confirmed, fmt.Sprintf("%s:%d", task.Path(), descendants))
	if m.ConfirmErr != nil {
		return false, m.ConfirmErr
	}
	return m.Confirm, nil
}

// MockTaskRepository is an in-memory domain.TaskRepository.
// Data holds the encoded file; nil means the file does not exist.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	codec     *filestore.Codec
	Data      []byte
	LoadErr   error
	SaveErr   error
	LockErr   error
	FilePath  string
	SaveCalls int
	Locked    bool
}

// NewMockTaskRepository creates an empty repository using the TOML codec.
func NewMockTaskRepository() *MockTaskRepository {
	codec, _ := filestore.NewCodec(filestore.FormatTOML)
	return &MockTaskRepository{codec: codec, FilePath: "/data/tasks.toml"}
}

// Put stores tree as the current file contents.
func (m *MockTaskRepository) Put(tree *domain.Tree, meta domain.Meta) error {
	data, err := m.codec.Encode(tree, meta)
	if err != nil {
		return err
	}
	m.Data = data
	return nil
}

// Load decodes Data.
func (m *MockTaskRepository) Load() (*domain.Tree, domain.Meta, error) {
	if m.LoadErr != nil {
		return nil, domain.Meta{}, m.LoadErr
	}
	if m.Data == nil {
		return domain.NewTree(), domain.Meta{}, nil
	}
	return m.codec.Decode(m.Data)
}

// Save encodes tree into Data.
func (m *MockTaskRepository) Save(tree *domain.Tree, meta domain.Meta) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCalls++
	return m.Put(tree, meta)
}

// ReadRaw returns Data.
func (m *MockTaskRepository) ReadRaw() ([]byte, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Data, nil
}

// WriteRaw replaces Data.
func (m *MockTaskRepository) WriteRaw(data []byte) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCalls++
	m.Data = append([]byte(nil), data...)
	return nil
}

// Codec returns the TOML codec.
func (m *MockTaskRepository) Codec() domain.TaskCodec {
	return m.codec
}

// Path returns FilePath.
func (m *MockTaskRepository) Path() string {
	return m.FilePath
}

// Lock marks the repository locked.
func (m *MockTaskRepository) Lock() error {
	if m.LockErr != nil {
		return m.LockErr
	}
	if m.Locked {
		return domain.ErrLocked
	}
	m.Locked = true
	return nil
}

// Unlock clears the lock.
func (m *MockTaskRepository) Unlock() error {
	m.Locked = false
	return nil
}

// MockRemote is a test double for domain.Remote.
// Fields are ordered to minimize memory padding.
type MockRemote struct {
	FetchErr   error
	PushErr    error
	Data       []byte
	Pushed     [][]byte
	FetchCalls int
}

// Fetch returns Data.
func (m *MockRemote) Fetch(_ context.Context) ([]byte, error) {
	m.FetchCalls++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Data, nil
}

// Push records data and makes it the remote copy.
func (m *MockRemote) Push(_ context.Context, data []byte) error {
	if m.PushErr != nil {
		return m.PushErr
	}
	cp := append([]byte(nil), data...)
	m.Pushed = append(m.Pushed, cp)
	m.Data = cp
	return nil
}

// Describe returns a fixed location.
func (m *MockRemote) Describe() string {
	return "me@example.com:della/tasks.toml"
}

// MockHistory is an in-memory domain.History.
// Fields are ordered to minimize memory padding.
type MockHistory struct {
	RecordErr error
	ListErr   error
	Data      map[string][]byte
	Snapshots []domain.Snapshot // newest first
	Now       time.Time
}

// NewMockHistory creates an empty history.
func NewMockHistory() *MockHistory {
	return &MockHistory{Data: make(map[string][]byte)}
}

// Record stores data under a sequential hash unless it equals the newest snapshot.
func (m *MockHistory) Record(_ context.Context, data []byte, message string) (string, error) {
	if m.RecordErr != nil {
		return "", m.RecordErr
	}
	if len(m.Snapshots) > 0 && string(m.Data[m.Snapshots[0].Hash]) == string(data) {
		return "", nil
	}
	hash := fmt.Sprintf("%040d", len(m.Snapshots)+1)
	m.Data[hash] = append([]byte(nil), data...)
	m.Snapshots = append([]domain.Snapshot{{Hash: hash, Message: message, Time: m.Now}}, m.Snapshots...)
	return hash, nil
}

// List returns up to limit snapshots.
func (m *MockHistory) List(_ context.Context, limit int) ([]domain.Snapshot, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if limit > 0 && limit < len(m.Snapshots) {
		return m.Snapshots[:limit], nil
	}
	return m.Snapshots, nil
}

// Get returns data for a hash or hash prefix.
func (m *MockHistory) Get(_ context.Context, rev string) ([]byte, error) {
	for _, s := range m.Snapshots {
		if strings.HasPrefix(s.Hash, rev) {
			return m.Data[s.Hash], nil
		}
	}
	return nil, &domain.NotFoundError{Address: rev}
}

// MockIDGenerator returns IDs in order.
type MockIDGenerator struct {
	IDs  []string
	next int
}

// NewID returns the next configured id.
func (m *MockIDGenerator) NewID() string {
	if m.next >= len(m.IDs) {
		return fmt.Sprintf("id%d", m.next)
	}
	id := m.IDs[m.next]
	m.next++
	return id
}

// MockLogger records log entries as "LEVEL category: msg".
type MockLogger struct {
	Entries []string
}

// Info records an info entry.
func (m *MockLogger) Info(category, msg string) { m.add("INFO", category, msg) }

// Debug records a debug entry.
func (m *MockLogger) Debug(category, msg string) { m.add("DEBUG", category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(category, msg string) { m.add("WARN", category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(category, msg string) { m.add("ERROR", category, msg) }

func (m *MockLogger) add(level, category, msg string) {
	m.Entries = append(m.Entries, level+" "+category+": "+msg)
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitErr   error
	Inited    *domain.Config
	Info      domain.ConfigInfo
	InitForce bool
}

// GetConfigInfo returns Info.
func (m *MockConfigManager) GetConfigInfo() domain.ConfigInfo {
	return m.Info
}

// InitConfig records the call.
func (m *MockConfigManager) InitConfig(cfg *domain.Config, force bool) error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Inited = cfg
	m.InitForce = force
	return nil
}

// Ensure mocks implement their interfaces.
var (
	_ domain.Clock          = (*MockClock)(nil)
	_ domain.DateExtractor  = (*MockDateExtractor)(nil)
	_ domain.Prompter       = (*MockPrompter)(nil)
	_ domain.TaskRepository = (*MockTaskRepository)(nil)
	_ domain.Remote         = (*MockRemote)(nil)
	_ domain.History        = (*MockHistory)(nil)
	_ domain.IDGenerator    = (*MockIDGenerator)(nil)
	_ domain.Logger         = (*MockLogger)(nil)
	_ domain.ConfigManager  = (*MockConfigManager)(nil)
	_ domain.ConfigLoader   = (*MockConfigLoader)(nil)
)

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a loader returning the default configuration.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns Config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}
