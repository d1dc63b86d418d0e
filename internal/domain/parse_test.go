package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

// wordDates recognizes the last occurrence of "tomorrow" or "today".
type wordDates struct{}

func (wordDates) Extract(text string, base time.Time) (*DateMatch, error) {
	best := -1
	word := ""
	for _, w := range []string{"tomorrow", "today"} {
		if i := strings.LastIndex(text, w); i > best {
			best, word = i, w
		}
	}
	if best < 0 {
		return nil, nil
	}
	d := DateOf(base)
	if word == "tomorrow" {
		d = DateOf(base.AddDate(0, 0, 1))
	}
	return &DateMatch{Text: word, Date: d, Start: best, End: best + len(word)}, nil
}

type failingDates struct{}

func (failingDates) Extract(string, time.Time) (*DateMatch, error) { return nil, assert.AnError }

var parseNow = time.Date(2024, time.January, 4, 9, 0, 0, 0, time.UTC)

func TestParser_Parse_CommandTargetDate(t *testing.T) {
	// Setup
	p := NewParser(wordDates{}, stubClock{now: parseNow})

	// Execute
	res, err := p.Parse("@delete #foo/bar do this tomorrow")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, CommandDelete, res.Command)
	assert.Equal(t, "delete", res.CommandWord)
	assert.True(t, res.HasTarget)
	assert.Equal(t, "foo/bar", res.Target)
	require.NotNil(t, res.Date)
	assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 5}, res.Date.Date)
	assert.Equal(t, "tomorrow", res.Date.Text)
	assert.Equal(t, "do this", res.Content)
	assert.Equal(t, "@delete #foo/bar do this tomorrow", res.Input)
}

func TestParser_Parse(t *testing.T) {
	p := NewParser(wordDates{}, stubClock{now: parseNow})

	tests := []struct {
		name      string
		input     string
		command   Command
		target    string
		hasTarget bool
		content   string
		hasDate   bool
	}{
		{"plain content", "buy milk", CommandNone, "", false, "buy milk", false},
		{"extra whitespace", "  buy   milk  ", CommandNone, "", false, "buy milk", false},
		{"target anywhere", "write #work/report summary", CommandNone, "work/report", true, "write summary", false},
		{"first target wins", "#a #b text", CommandNone, "a", true, "#b text", false},
		{"first command wins", "@ls @rm", CommandList, "", false, "@rm", false},
		{"mention after content", "email bob @h", CommandNone, "", false, "email bob @h", false},
		{"mention mid-line", "call @alice about lunch", CommandNone, "", false, "call @alice about lunch", false},
		{"command after target", "#work @ls", CommandNone, "work", true, "@ls", false},
		{"alias", "@CD #home", CommandSet, "home", true, "", false},
		{"empty target marker", "@ls #", CommandList, "", true, "", false},
		{"absolute target", "@mv #/a/b #c", CommandMove, "/a/b", true, "#c", false},
		{"id target", "@ls ##qr/draft", CommandList, "#qr/draft", true, "", false},
		{"date in middle", "call today mom", CommandNone, "", false, "call mom", true},
		{"last date wins", "today or tomorrow", CommandNone, "", false, "today or", true},
		{"empty", "", CommandNone, "", false, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.command, res.Command)
			assert.Equal(t, tt.target, res.Target)
			assert.Equal(t, tt.hasTarget, res.HasTarget)
			assert.Equal(t, tt.content, res.Content)
			assert.Equal(t, tt.hasDate, res.Date != nil)
		})
	}
}

func TestParser_Parse_UnknownCommand(t *testing.T) {
	p := NewParser(nil, nil)

	_, err := p.Parse("@frobnicate #a")

	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestParser_Parse_NoExtractor(t *testing.T) {
	p := NewParser(nil, nil)

	res, err := p.Parse("call mom tomorrow")

	require.NoError(t, err)
	assert.Nil(t, res.Date)
	assert.Equal(t, "call mom tomorrow", res.Content)
}

func TestParser_Parse_ExtractorError(t *testing.T) {
	p := NewParser(failingDates{}, nil)

	_, err := p.Parse("anything")

	assert.ErrorIs(t, err, assert.AnError)
}

func TestParser_Parse_ImplicitTarget(t *testing.T) {
	p := NewParser(nil, nil, WithImplicitTarget(true))

	res, err := p.Parse("@cd work")
	require.NoError(t, err)
	assert.True(t, res.HasTarget)
	assert.Equal(t, "work", res.Target)
	assert.Equal(t, "", res.Content)

	res, err = p.Parse("@mv a b")
	require.NoError(t, err)
	assert.Equal(t, "a", res.Target)
	assert.Equal(t, "b", res.Content)

	res, err = p.Parse("@find tea")
	require.NoError(t, err)
	assert.False(t, res.HasTarget, "find takes a keyword, not a target")
	assert.Equal(t, "tea", res.Content)

	res, err = p.Parse("plain words")
	require.NoError(t, err)
	assert.False(t, res.HasTarget)
}
