package domain

import (
	"strings"
)

// Command identifies a line command.
type Command string

// Line commands. CommandNone means "add a task".
const (
	CommandNone   Command = ""
	CommandList   Command = "list"
	CommandDelete Command = "delete"
	CommandSet    Command = "set"
	CommandHome   Command = "home"
	CommandQuit   Command = "quit"
	CommandMove   Command = "move"
	CommandID     Command = "id"
	CommandEdit   Command = "edit"
	CommandFind   Command = "find"
	CommandHelp   Command = "help"
)

// CommandMarker prefixes a command token on the input line.
const CommandMarker = "@"

// CommandSpec describes a command for help output and completion.
type CommandSpec struct {
	Name        Command
	Usage       string
	Description string
	Aliases     []string
}

var commandSpecs = []CommandSpec{
	{Name: CommandList, Aliases: []string{"ls"}, Usage: "@ls [#task]", Description: "Show the subtree of a task"},
	{Name: CommandDelete, Aliases: []string{"del", "rm"}, Usage: "@rm #task", Description: "Delete a task after confirmation"},
	{Name: CommandSet, Aliases: []string{"cd"}, Usage: "@cd #task", Description: "Make a task the current context"},
	{Name: CommandHome, Aliases: []string{"h"}, Usage: "@h", Description: "Return the context to the root"},
	{Name: CommandMove, Aliases: []string{"mv"}, Usage: "@mv #task [destination]", Description: "Move a task under another task"},
	{Name: CommandID, Aliases: []string{"uid"}, Usage: "@id #task [id]", Description: "Assign a unique id (generated when omitted)"},
	{Name: CommandEdit, Aliases: []string{"rename"}, Usage: "@edit #task [content] [date]", Description: "Change the content or due date of a task"},
	{Name: CommandFind, Aliases: []string{"search", "?"}, Usage: "@find keyword", Description: "List tasks whose path ends with keyword"},
	{Name: CommandHelp, Usage: "@help", Description: "List commands"},
	{Name: CommandQuit, Aliases: []string{"q", "exit"}, Usage: "@q", Description: "Save and quit"},
}

var commandAliases = func() map[string]Command {
	m := make(map[string]Command)
	for _, s := range commandSpecs {
		m[string(s.Name)] = s.Name
		for _, a := range s.Aliases {
			m[a] = s.Name
		}
	}
	return m
}()

// Commands returns the command table in display order.
func Commands() []CommandSpec {
	out := make([]CommandSpec, len(commandSpecs))
	copy(out, commandSpecs)
	return out
}

// CommandNames returns every canonical name and alias.
func CommandNames() []string {
	var names []string
	for _, s := range commandSpecs {
		names = append(names, string(s.Name))
		names = append(names, s.Aliases...)
	}
	return names
}

// ResolveCommand maps a command name or alias (marker optional) to its Command.
func ResolveCommand(name string) (Command, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), CommandMarker))
	if cmd, ok := commandAliases[key]; ok {
		return cmd, nil
	}
	return CommandNone, &UnknownCommandError{Command: name}
}
