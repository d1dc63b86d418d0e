package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"list", CommandList},
		{"ls", CommandList},
		{"delete", CommandDelete},
		{"del", CommandDelete},
		{"rm", CommandDelete},
		{"set", CommandSet},
		{"cd", CommandSet},
		{"home", CommandHome},
		{"h", CommandHome},
		{"quit", CommandQuit},
		{"q", CommandQuit},
		{"exit", CommandQuit},
		{"move", CommandMove},
		{"mv", CommandMove},
		{"id", CommandID},
		{"edit", CommandEdit},
		{"search", CommandFind},
		{"help", CommandHelp},
		{"LS", CommandList},
		{"@Mv", CommandMove},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCommand_Unknown(t *testing.T) {
	_, err := ResolveCommand("launch")

	var unk *UnknownCommandError
	require.True(t, errors.As(err, &unk))
	assert.Equal(t, "launch", unk.Command)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestCommandNames_ContainsAliases(t *testing.T) {
	names := CommandNames()

	assert.Contains(t, names, "list")
	assert.Contains(t, names, "rm")
	assert.Contains(t, names, "exit")
	assert.Len(t, Commands(), 10)
}
