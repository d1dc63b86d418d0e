package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/della/internal/domain"
)

// RunLineInput contains one input line for an open session.
type RunLineInput struct {
	Session *Session
	Line    string
}

// RunLineOutput contains what the line produced.
// Fields are ordered to minimize memory padding.
type RunLineOutput struct {
	Listed   *domain.Task         // Subtree to render (@ls, bare #task)
	Messages []string             // Status lines
	Matches  []*domain.Task       // Search results (@find)
	Commands []domain.CommandSpec // Command table (@help)
	Result   domain.ParseResult
	Quit     bool
}

// RunLine parses a line and dispatches it to the matching use case.
// Fields are ordered to minimize memory padding.
type RunLine struct {
	parser *domain.Parser
	add    *AddTask
	del    *DeleteTask
	move   *MoveTask
	list   *ListTasks
	set    *SetContext
	assign *AssignID
	edit   *EditTask
	search *SearchTasks
}

// NewRunLine creates a new RunLine use case.
func NewRunLine(parser *domain.Parser, prompter domain.Prompter, ids domain.IDGenerator, logger domain.Logger) *RunLine {
	return &RunLine{
		parser: parser,
		add:    NewAddTask(prompter, logger),
		del:    NewDeleteTask(prompter, logger),
		move:   NewMoveTask(prompter, logger),
		list:   NewListTasks(prompter),
		set:    NewSetContext(prompter, logger),
		assign: NewAssignID(prompter, ids, logger),
		edit:   NewEditTask(prompter, logger),
		search: NewSearchTasks(),
	}
}

// Execute runs one line. A failed line leaves the tree unchanged.
func (uc *RunLine) Execute(ctx context.Context, in RunLineInput) (*RunLineOutput, error) {
	if in.Session == nil || in.Session.Tree == nil {
		return nil, fmt.Errorf("%w: no open session", domain.ErrInvalidOperation)
	}
	out := &RunLineOutput{}
	if strings.TrimSpace(in.Line) == "" {
		return out, nil
	}

	res, err := uc.parser.Parse(in.Line)
	if err != nil {
		return nil, err
	}
	out.Result = res
	tree := in.Session.Tree

	switch res.Command {
	case domain.CommandNone:
		if res.Content == "" && res.Date == nil && res.HasTarget {
			return uc.runList(ctx, tree, res.Target, out)
		}
		var due domain.Date
		if res.Date != nil {
			due = res.Date.Date
		}
		r, err := uc.add.Execute(ctx, AddTaskInput{Tree: tree, Content: res.Content, Target: res.Target, Due: due})
		if err != nil {
			return nil, err
		}
		in.Session.Dirty = true
		msg := "added " + DisplayPath(r.Task)
		if !due.IsZero() {
			msg += " (due " + due.String() + ")"
		}
		out.Messages = append(out.Messages, msg)

	case domain.CommandList:
		return uc.runList(ctx, tree, res.Target, out)

	case domain.CommandDelete:
		r, err := uc.del.Execute(ctx, DeleteTaskInput{Tree: tree, Target: res.Target})
		if err != nil {
			return nil, err
		}
		if !r.Deleted {
			out.Messages = append(out.Messages, "not deleted: /"+r.Path)
			break
		}
		in.Session.Dirty = true
		msg := "deleted /" + r.Path
		switch {
		case r.Descendants == 0:
		case tree.Policy() == domain.DeleteReparent:
			msg += fmt.Sprintf(" (%s lifted)", plural(r.Descendants, "subtask"))
		default:
			msg += fmt.Sprintf(" and %s", plural(r.Descendants, "subtask"))
		}
		out.Messages = append(out.Messages, msg)

	case domain.CommandSet:
		r, err := uc.set.Execute(ctx, SetContextInput{Tree: tree, Target: res.Target})
		if err != nil {
			return nil, err
		}
		out.Messages = append(out.Messages, "context: "+DisplayPath(r.Context))

	case domain.CommandHome:
		r, err := uc.set.Execute(ctx, SetContextInput{Tree: tree, Home: true})
		if err != nil {
			return nil, err
		}
		out.Messages = append(out.Messages, "context: "+DisplayPath(r.Context))

	case domain.CommandMove:
		r, err := uc.move.Execute(ctx, MoveTaskInput{Tree: tree, Target: res.Target, Destination: res.Content})
		if err != nil {
			return nil, err
		}
		in.Session.Dirty = true
		out.Messages = append(out.Messages, fmt.Sprintf("moved /%s to %s", r.From, DisplayPath(r.Task)))

	case domain.CommandID:
		r, err := uc.assign.Execute(ctx, AssignIDInput{Tree: tree, Target: res.Target, ID: res.Content})
		if err != nil {
			return nil, err
		}
		in.Session.Dirty = true
		out.Messages = append(out.Messages, fmt.Sprintf("%s%s -> %s", domain.IDMarker, r.ID, DisplayPath(r.Task)))

	case domain.CommandEdit:
		var due *domain.Date
		if res.Date != nil {
			d := res.Date.Date
			due = &d
		}
		r, err := uc.edit.Execute(ctx, EditTaskInput{Tree: tree, Target: res.Target, Content: res.Content, Due: due})
		if err != nil {
			return nil, err
		}
		in.Session.Dirty = true
		out.Messages = append(out.Messages, fmt.Sprintf("edited /%s -> %s", r.From, DisplayPath(r.Task)))

	case domain.CommandFind:
		query := res.Content
		if query == "" {
			query = res.Target
		}
		r, err := uc.search.Execute(ctx, SearchTasksInput{Tree: tree, Query: query})
		if err != nil {
			return nil, err
		}
		out.Matches = r.Matches
		out.Messages = append(out.Messages, plural(len(r.Matches), "match"))

	case domain.CommandHelp:
		out.Commands = domain.Commands()

	case domain.CommandQuit:
		out.Quit = true
	}

	return out, nil
}

func (uc *RunLine) runList(ctx context.Context, tree *domain.Tree, target string, out *RunLineOutput) (*RunLineOutput, error) {
	r, err := uc.list.Execute(ctx, ListTasksInput{Tree: tree, Target: target})
	if err != nil {
		return nil, err
	}
	out.Listed = r.Root
	return out, nil
}

// DisplayPath renders a task path with a leading slash; the root is "/".
func DisplayPath(task *domain.Task) string {
	return domain.AbsoluteMarker + task.Path()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "h") {
		return fmt.Sprintf("%d %ses", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
