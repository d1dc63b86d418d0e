package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/della/internal/domain"
	"github.com/runoshun/della/internal/testutil"
	"github.com/runoshun/della/internal/usecase"
)

var baseTime = time.Date(2024, time.January, 4, 10, 0, 0, 0, time.UTC)

type lineFixture struct {
	session  *usecase.Session
	runLine  *usecase.RunLine
	prompter *testutil.MockPrompter
	logger   *testutil.MockLogger
}

func newLineFixture(t *testing.T, opts ...domain.ParserOption) *lineFixture {
	t.Helper()
	clock := &testutil.MockClock{NowTime: baseTime}
	parser := domain.NewParser(testutil.NewMockDateExtractor(baseTime), clock, opts...)
	prompter := &testutil.MockPrompter{Confirm: true}
	logger := &testutil.MockLogger{}
	ids := &testutil.MockIDGenerator{IDs: []string{"abc123"}}
	return &lineFixture{
		session:  &usecase.Session{Tree: domain.NewTree()},
		runLine:  usecase.NewRunLine(parser, prompter, ids, logger),
		prompter: prompter,
		logger:   logger,
	}
}

func (f *lineFixture) run(t *testing.T, line string) *usecase.RunLineOutput {
	t.Helper()
	out, err := f.runLine.Execute(context.Background(), usecase.RunLineInput{Session: f.session, Line: line})
	require.NoError(t, err, line)
	return out
}

func (f *lineFixture) runErr(line string) error {
	_, err := f.runLine.Execute(context.Background(), usecase.RunLineInput{Session: f.session, Line: line})
	return err
}

func TestRunLine_AddAndResolve(t *testing.T) {
	// Setup
	f := newLineFixture(t)

	// Execute
	first := f.run(t, "buy milk")
	second := f.run(t, "#buy-milk urgent tomorrow")

	// Assert
	assert.Equal(t, []string{"added /buy-milk"}, first.Messages)
	assert.Equal(t, []string{"added /buy-milk/urgent (due 2024-01-05)"}, second.Messages)
	urgent, err := f.session.Tree.Resolve("/buy-milk/urgent")
	require.NoError(t, err)
	assert.Equal(t, "urgent", urgent.Content())
	assert.Equal(t, "2024-01-05", urgent.Due().String())
	assert.True(t, f.session.Dirty)
	assert.Contains(t, f.logger.Entries, `INFO task: added "buy-milk/urgent" under "buy-milk"`)
}

func TestRunLine_EmptyLine(t *testing.T) {
	f := newLineFixture(t)

	out := f.run(t, "   ")

	assert.Empty(t, out.Messages)
	assert.False(t, f.session.Dirty)
}

func TestRunLine_DateOnlyIsEmptyContent(t *testing.T) {
	f := newLineFixture(t)

	err := f.runErr("tomorrow")

	assert.ErrorIs(t, err, domain.ErrEmptyContent)
	assert.False(t, f.session.Dirty)
	assert.Equal(t, 0, f.session.Tree.Len())
}

func TestRunLine_AtWordsAfterFirstTokenAreContent(t *testing.T) {
	// Setup
	f := newLineFixture(t)

	// Execute
	mention := f.run(t, "call @alice about lunch")
	trailing := f.run(t, "email bob @h")

	// Assert
	require.Len(t, mention.Messages, 1)
	assert.Contains(t, mention.Messages[0], "added /call-")
	require.Len(t, trailing.Messages, 1)
	assert.Contains(t, trailing.Messages[0], "added /email-bob")
	children := f.session.Tree.Root().Children()
	require.Len(t, children, 2)
	assert.Equal(t, "call @alice about lunch", children[0].Content())
	assert.Equal(t, "email bob @h", children[1].Content())
	assert.True(t, f.session.Tree.Context().IsRoot())
}

func TestRunLine_UnknownCommand(t *testing.T) {
	f := newLineFixture(t)

	err := f.runErr("@frobnicate #x")

	assert.ErrorIs(t, err, domain.ErrUnknownCommand)
}

func TestRunLine_ListAndBareTarget(t *testing.T) {
	f := newLineFixture(t)
	f.run(t, "work")
	f.run(t, "#work report")

	listed := f.run(t, "@ls #work")
	bare := f.run(t, "#work")
	root := f.run(t, "@ls")

	require.NotNil(t, listed.Listed)
	assert.Equal(t, "work", listed.Listed.Path())
	require.NotNil(t, bare.Listed)
	assert.Equal(t, "work", bare.Listed.Path())
	assert.True(t, root.Listed.IsRoot())
}

func TestRunLine_AmbiguousKeywordUsesChooser(t *testing.T) {
	// Setup
	f := newLineFixture(t)
	for _, line := range []string{"having", "#having tea", "drink", "#drink hot", "#drink/hot tea"} {
		f.run(t, line)
	}
	f.prompter.ChooseIndex = 1

	// Execute
	out := f.run(t, "@ls #tea")

	// Assert
	require.Len(t, f.prompter.Candidates, 1)
	candidates := f.prompter.Candidates[0]
	require.Len(t, candidates, 2)
	assert.Equal(t, "drink/hot/tea", candidates[0].Path())
	assert.Equal(t, "having/tea", candidates[1].Path())
	assert.Equal(t, "having/tea", out.Listed.Path())
}

func TestRunLine_ChooserCancelled(t *testing.T) {
	f := newLineFixture(t)
	for _, line := range []string{"a", "#a tea", "b", "#b tea"} {
		f.run(t, line)
	}
	f.prompter.ChooseIndex = -1

	err := f.runErr("#tea biscuits")

	assert.ErrorIs(t, err, domain.ErrNoChoice)
	assert.Equal(t, 4, f.session.Tree.Len())
}

func TestRunLine_Delete(t *testing.T) {
	t.Run("confirmed cascade", func(t *testing.T) {
		f := newLineFixture(t)
		f.run(t, "work")
		f.run(t, "#work report")
		f.run(t, "#work/report draft")
		f.session.Dirty = false

		out := f.run(t, "@rm #work")

		assert.Equal(t, []string{"deleted /work and 2 subtasks"}, out.Messages)
		assert.Equal(t, []string{"work:2"}, f.prompter.Confirmed)
		assert.Equal(t, 0, f.session.Tree.Len())
		assert.True(t, f.session.Dirty)
	})

	t.Run("declined", func(t *testing.T) {
		f := newLineFixture(t)
		f.run(t, "work")
		f.session.Dirty = false
		f.prompter.Confirm = false

		out := f.run(t, "@del #work")

		assert.Equal(t, []string{"not deleted: /work"}, out.Messages)
		assert.Equal(t, 1, f.session.Tree.Len())
		assert.False(t, f.session.Dirty)
	})

	t.Run("reparent policy", func(t *testing.T) {
		f := newLineFixture(t)
		f.session.Tree.SetDeletePolicy(domain.DeleteReparent)
		f.run(t, "work")
		f.run(t, "#work report")

		out := f.run(t, "@rm #work")

		assert.Equal(t, []string{"deleted /work (1 subtask lifted)"}, out.Messages)
		_, err := f.session.Tree.Resolve("/report")
		assert.NoError(t, err)
	})

	t.Run("missing target", func(t *testing.T) {
		f := newLineFixture(t)

		assert.ErrorIs(t, f.runErr("@rm"), domain.ErrMissingTarget)
	})

	t.Run("unknown path", func(t *testing.T) {
		f := newLineFixture(t)

		err := f.runErr("@delete #foo/bar do this tomorrow")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRunLine_ContextCommands(t *testing.T) {
	f := newLineFixture(t)
	f.run(t, "work")

	set := f.run(t, "@cd #work")
	added := f.run(t, "notes")
	home := f.run(t, "@h")

	assert.Equal(t, []string{"context: /work"}, set.Messages)
	assert.Equal(t, []string{"added /work/notes"}, added.Messages)
	assert.Equal(t, []string{"context: /"}, home.Messages)
	assert.True(t, f.session.Tree.Context().IsRoot())
}

func TestRunLine_Move(t *testing.T) {
	f := newLineFixture(t)
	f.run(t, "a")
	f.run(t, "b")

	out := f.run(t, "@mv #a b")

	assert.Equal(t, []string{"moved /a to /b/a"}, out.Messages)
	assert.ErrorIs(t, f.runErr("@mv #b b/a"), domain.ErrInvalidOperation)
}

func TestRunLine_AssignID(t *testing.T) {
	f := newLineFixture(t)
	f.run(t, "a")
	f.run(t, "b")

	generated := f.run(t, "@id #a")
	child := f.run(t, "##abc123 child")
	err := f.runErr("@uid #b abc123")

	assert.Equal(t, []string{"#abc123 -> /a"}, generated.Messages)
	assert.Equal(t, []string{"added /a/child"}, child.Messages)
	assert.ErrorIs(t, err, domain.ErrIdentifierConflict)
}

func TestRunLine_Edit(t *testing.T) {
	f := newLineFixture(t)
	f.run(t, "a")

	out := f.run(t, "@edit #a Alpha tomorrow")

	assert.Equal(t, []string{"edited /a -> /alpha"}, out.Messages)
	alpha, err := f.session.Tree.Resolve("alpha")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", alpha.Due().String())
	assert.ErrorIs(t, f.runErr("@edit #alpha"), domain.ErrNothingToChange)
}

func TestRunLine_Find(t *testing.T) {
	f := newLineFixture(t)
	for _, line := range []string{"having", "#having tea", "drink", "#drink tea"} {
		f.run(t, line)
	}

	out := f.run(t, "@find tea")

	assert.Equal(t, []string{"2 matches"}, out.Messages)
	assert.Len(t, out.Matches, 2)
	assert.ErrorIs(t, f.runErr("@?"), domain.ErrValidation)
}

func TestRunLine_HelpAndQuit(t *testing.T) {
	f := newLineFixture(t)

	help := f.run(t, "@help")
	quit := f.run(t, "@q")

	assert.Equal(t, domain.Commands(), help.Commands)
	assert.True(t, quit.Quit)
}

func TestRunLine_ImplicitTarget(t *testing.T) {
	f := newLineFixture(t, domain.WithImplicitTarget(true))
	f.run(t, "work")

	out := f.run(t, "@ls work")

	assert.Equal(t, "work", out.Listed.Path())
}

func TestRunLine_NoSession(t *testing.T) {
	f := newLineFixture(t)

	_, err := f.runLine.Execute(context.Background(), usecase.RunLineInput{Line: "x"})

	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}
