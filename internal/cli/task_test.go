package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/della/internal/domain"
)

func TestTargetToken(t *testing.T) {
	assert.Equal(t, "#work", targetToken("work"))
	assert.Equal(t, "#/work", targetToken("/work"))
	assert.Equal(t, "##r1", targetToken("#r1"))
}

func TestJoinLine(t *testing.T) {
	assert.Equal(t, "@mv #a b", joinLine("@mv", " #a ", "", "b"))
	assert.Equal(t, "", joinLine("", " "))
}

func TestAddCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantPath string
	}{
		{"root", []string{"add", "buy", "milk"}, "added /buy-milk\n", "buy-milk"},
		{"under", []string{"add", "--under", "work", "report"}, "added /work/report\n", "work/report"},
		{"due flag", []string{"add", "-u", "/work", "report", "--due", "tomorrow"}, "added /work/report (due 2024-01-05)\n", "work/report"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			c, repo := newTestContainer(t, "work")

			// Execute
			out, _, err := execute(t, c, "", tt.args...)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
			_, ok := loadTree(t, repo).Lookup(tt.wantPath)
			assert.True(t, ok)
		})
	}
}

func TestAddCommand_RejectsCommandContent(t *testing.T) {
	c, repo := newTestContainer(t)

	_, _, err := execute(t, c, "", "add", "@ls")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, repo.SaveCalls)
}

func TestLsCommand(t *testing.T) {
	// Setup
	c, repo := newTestContainer(t, "work", "work/report", "home")
	tree := loadTree(t, repo)
	report, ok := tree.Lookup("work/report")
	require.True(t, ok)
	require.NoError(t, tree.AssignID(report, "r1"))
	require.NoError(t, repo.Put(tree, domain.Meta{Timestamp: 2}))

	// Execute
	plain, _, err := execute(t, c, "", "ls")
	require.NoError(t, err)
	withIDs, _, err := execute(t, c, "", "ls", "--ids")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "/work\n/work/report\n/home\n", plain)
	assert.Equal(t, "/work\n/work/report\t##r1\n/home\n", withIDs)
	assert.False(t, repo.Locked)
}

func TestTreeCommand(t *testing.T) {
	c, _ := newTestContainer(t, "work", "work/report")

	out, _, err := execute(t, c, "", "tree", "work")

	require.NoError(t, err)
	assert.Contains(t, out, "work | 1 subtask")
	assert.Contains(t, out, "\n  1. report")
	assert.NotContains(t, out, "All Tasks")
}

func TestTreeCommand_NotFound(t *testing.T) {
	c, _ := newTestContainer(t)

	_, _, err := execute(t, c, "", "tree", "/missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRmCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		stdin     string
		wantOut   string
		wantTasks int
	}{
		{"yes flag", []string{"rm", "--yes", "work"}, "", "deleted /work and 1 subtask", 0},
		{"confirmed", []string{"rm", "work"}, "y\n", "deleted /work and 1 subtask", 0},
		{"declined", []string{"delete", "work"}, "n\n", "not deleted: /work", 2},
		{"no answer", []string{"rm", "work"}, "", "not deleted: /work", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			c, repo := newTestContainer(t, "work", "work/report")

			// Execute
			out, _, err := execute(t, c, tt.stdin, tt.args...)

			// Assert
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
			assert.Equal(t, tt.wantTasks, loadTree(t, repo).Len())
		})
	}
}

func TestRmCommand_AsksBeforeDeleting(t *testing.T) {
	c, _ := newTestContainer(t, "work", "work/report")

	out, _, err := execute(t, c, "n\n", "rm", "work")

	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete '/work'?")
	assert.Contains(t, out, "It has 1 subtasks that will also be deleted")
}

func TestMvCommand(t *testing.T) {
	t.Run("under destination", func(t *testing.T) {
		c, repo := newTestContainer(t, "a", "b")

		out, _, err := execute(t, c, "", "mv", "a", "b")

		require.NoError(t, err)
		assert.Equal(t, "moved /a to /b/a\n", out)
		_, ok := loadTree(t, repo).Lookup("b/a")
		assert.True(t, ok)
	})

	t.Run("default is root", func(t *testing.T) {
		c, repo := newTestContainer(t, "b", "b/a")

		out, _, err := execute(t, c, "", "mv", "b/a")

		require.NoError(t, err)
		assert.Equal(t, "moved /b/a to /a\n", out)
		_, ok := loadTree(t, repo).Lookup("a")
		assert.True(t, ok)
	})
}

func TestEditCommand(t *testing.T) {
	c, repo := newTestContainer(t, "a")

	out, _, err := execute(t, c, "", "edit", "a", "Alpha", "--due", "tomorrow")

	require.NoError(t, err)
	assert.Equal(t, "edited /a -> /alpha\n", out)
	alpha, ok := loadTree(t, repo).Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, "Alpha", alpha.Content())
	assert.Equal(t, "2024-01-05", alpha.Due().String())
}

func TestIDCommand(t *testing.T) {
	c, repo := newTestContainer(t, "a")

	out, _, err := execute(t, c, "", "id", "a", "first")

	require.NoError(t, err)
	assert.Equal(t, "#first -> /a\n", out)
	task, ok := loadTree(t, repo).ByID("first")
	require.True(t, ok)
	assert.Equal(t, "a", task.Path())
}

func TestIDCommand_Generated(t *testing.T) {
	c, repo := newTestContainer(t, "a")

	_, _, err := execute(t, c, "", "id", "a")

	require.NoError(t, err)
	task, ok := loadTree(t, repo).Lookup("a")
	require.True(t, ok)
	assert.NotEmpty(t, task.UniqueID())
}

func TestFindCommand(t *testing.T) {
	c, repo := newTestContainer(t, "having", "having/tea", "drink", "drink/tea")

	out, _, err := execute(t, c, "", "find", "tea")

	require.NoError(t, err)
	assert.Contains(t, out, "2 matches")
	assert.Contains(t, out, "/having/tea")
	assert.Contains(t, out, "/drink/tea")
	assert.Equal(t, 0, repo.SaveCalls)
}
