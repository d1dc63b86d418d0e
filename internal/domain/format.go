package domain

import (
	"fmt"
	"strings"
)

// FormatOptions controls how a task is rendered as text.
type FormatOptions struct {
	DateLayout    string // Go time layout; DefaultDateFormat when empty
	ShowDaysUntil bool   // Append "(in N days)" style suffix
}

// TaskView is the display decomposition of a task.
type TaskView struct {
	Content string // Task content
	Summary string // "N subtasks", or ""
	Due     string // Formatted due date with optional relative suffix, or ""
}

// Decompose splits task into its display parts.
func Decompose(task *Task, opts FormatOptions, today Date) TaskView {
	v := TaskView{Content: task.content}
	switch n := len(task.children); n {
	case 0:
	case 1:
		v.Summary = "1 subtask"
	default:
		v.Summary = fmt.Sprintf("%d subtasks", n)
	}
	if !task.due.IsZero() {
		layout := opts.DateLayout
		if layout == "" {
			layout = DefaultDateFormat
		}
		v.Due = task.due.Format(layout)
		if opts.ShowDaysUntil && !today.IsZero() {
			v.Due += " (" + RelativeDays(task.due.DaysUntil(today)) + ")"
		}
	}
	return v
}

// FormatTask renders task on one line: "content | N subtasks  Mon, Jan 02 (in 3 days)".
func FormatTask(task *Task, opts FormatOptions, today Date) string {
	v := Decompose(task, opts, today)
	var b strings.Builder
	b.WriteString(v.Content)
	if v.Summary != "" {
		b.WriteString(" | ")
		b.WriteString(v.Summary)
	}
	if v.Due != "" {
		b.WriteString("  ")
		b.WriteString(v.Due)
	}
	return b.String()
}

// RelativeDays describes a day offset: "today", "tomorrow", "in 3 days", "2 days ago".
func RelativeDays(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}
