package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/della/internal/domain"
)

func candidates(t *testing.T) (*domain.Tree, []*domain.Task) {
	t.Helper()
	tree := domain.NewTree()
	a, err := tree.AddTask("a", nil, domain.Date{})
	require.NoError(t, err)
	b, err := tree.AddTask("b", a, domain.Date{})
	require.NoError(t, err)
	return tree, []*domain.Task{a, b}
}

func TestLinePrompter_ChooseTask(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int // -1 = no choice
		wantOut string
	}{
		{"first", "1\n", 0, "1. /a"},
		{"second", " 2 \n", 1, "2. /a/b"},
		{"out of range", "3\n", -1, "Multiple matches!"},
		{"not a number", "x\n", -1, ""},
		{"eof", "", -1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, list := candidates(t)
			var out bytes.Buffer
			p := newLinePrompter(strings.NewReader(tt.input), &out)

			got, err := p.ChooseTask(list)

			if tt.want < 0 {
				assert.ErrorIs(t, err, domain.ErrNoChoice)
			} else {
				require.NoError(t, err)
				assert.Same(t, list[tt.want], got)
			}
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestLinePrompter_ConfirmDelete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			_, list := candidates(t)
			var out bytes.Buffer
			p := newLinePrompter(strings.NewReader(tt.input), &out)

			got, err := p.ConfirmDelete(list[0], 1)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Are you sure you want to delete '/a'?")
			assert.Contains(t, out.String(), "It has 1 subtasks")
		})
	}
}

func TestLinePrompter_AssumeYes(t *testing.T) {
	_, list := candidates(t)
	var out bytes.Buffer
	p := newLinePrompter(strings.NewReader(""), &out)
	p.assumeYes = true

	got, err := p.ConfirmDelete(list[0], 1)

	require.NoError(t, err)
	assert.True(t, got)
	assert.Empty(t, out.String())
}
