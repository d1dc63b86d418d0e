package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/della/internal/domain"
	"github.com/runoshun/della/internal/testutil"
)

// recordTree records a snapshot holding tasks named contents.
func recordTree(t *testing.T, h *testutil.MockHistory, repo *testutil.MockTaskRepository, message string, contents ...string) string {
	t.Helper()
	tree := domain.NewTree()
	for _, content := range contents {
		_, err := tree.AddTask(content, nil, domain.Date{})
		require.NoError(t, err)
	}
	data, err := repo.Codec().Encode(tree, domain.Meta{Timestamp: 1, Version: domain.CurrentFileVersion})
	require.NoError(t, err)
	hash, err := h.Record(context.Background(), data, message)
	require.NoError(t, err)
	return hash
}

func TestHistoryCommand_List(t *testing.T) {
	// Setup
	c, repo := newTestContainer(t)
	h := testutil.NewMockHistory()
	h.Now = baseTime
	recordTree(t, h, repo, "first save", "a")
	recordTree(t, h, repo, "second save", "a", "b")
	c.History = h

	// Execute
	out, _, err := execute(t, c, "", "history")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "first save")
	assert.Contains(t, out, "second save")
	assert.Less(t, strings.Index(out, "second save"), strings.Index(out, "first save"))
	assert.Contains(t, out, "0000000  ")
}

func TestHistoryCommand_Limit(t *testing.T) {
	c, repo := newTestContainer(t)
	h := testutil.NewMockHistory()
	recordTree(t, h, repo, "first save", "a")
	recordTree(t, h, repo, "second save", "b")
	c.History = h

	out, _, err := execute(t, c, "", "history", "-n", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "second save")
	assert.NotContains(t, out, "first save")
}

func TestHistoryCommand_Empty(t *testing.T) {
	c, _ := newTestContainer(t)
	c.History = testutil.NewMockHistory()

	out, _, err := execute(t, c, "", "history")

	require.NoError(t, err)
	assert.Equal(t, "No snapshots found.\n", out)
}

func TestHistoryCommand_Disabled(t *testing.T) {
	c, _ := newTestContainer(t)

	_, _, err := execute(t, c, "", "history")

	assert.ErrorIs(t, err, domain.ErrHistoryDisabled)
}

func TestRestoreCommand(t *testing.T) {
	// Setup
	c, repo := newTestContainer(t, "current")
	h := testutil.NewMockHistory()
	hash := recordTree(t, h, repo, "old", "a", "b")
	c.History = h

	// Execute
	out, _, err := execute(t, c, "", "history", "restore", hash[:10])

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Restored "+hash[:10]+" (2 tasks)\n", out)
	tree := loadTree(t, repo)
	_, ok := tree.Lookup("b")
	assert.True(t, ok)
	_, ok = tree.Lookup("current")
	assert.False(t, ok)
}

func TestRestoreCommand_UnknownRevision(t *testing.T) {
	c, _ := newTestContainer(t)
	c.History = testutil.NewMockHistory()

	_, _, err := execute(t, c, "", "history", "restore", "deadbeef")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
