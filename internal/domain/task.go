// Package domain contains core business entities and interfaces.
package domain

import (
	"fmt"
	"strings"
)

// RootContent is the content of the sentinel root node.
const RootContent = "All Tasks"

// Task is a node in the task tree.
// Structural fields are unexported: tasks are created and mutated only through Tree.
// Fields are ordered to minimize memory padding.
type Task struct {
	parent   *Task
	children []*Task
	content  string
	slug     string
	uid      string
	due      Date
}

func newTask(content string, due Date) (*Task, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	return &Task{
		content: content,
		slug:    Slugify(content),
		due:     due,
	}, nil
}

// Content returns the task text.
func (t *Task) Content() string { return t.content }

// Slug returns the path segment derived from the content.
func (t *Task) Slug() string { return t.slug }

// UniqueID returns the assigned unique id, or "".
func (t *Task) UniqueID() string { return t.uid }

// Due returns the due date (zero when unset).
func (t *Task) Due() Date { return t.due }

// Parent returns the parent node, nil for the root.
func (t *Task) Parent() *Task { return t.parent }

// IsRoot reports whether t has no parent.
func (t *Task) IsRoot() bool { return t.parent == nil }

// Children returns a copy of the ordered child list.
func (t *Task) Children() []*Task {
	out := make([]*Task, len(t.children))
	copy(out, t.children)
	return out
}

// NumChildren returns the number of direct children.
func (t *Task) NumChildren() int { return len(t.children) }

// FullPath returns the chain of nodes from the root (exclusive) to t (inclusive).
func (t *Task) FullPath() []*Task {
	var chain []*Task
	for n := t; n != nil && n.parent != nil; n = n.parent {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Path returns the slash-joined slugs of FullPath. The root's path is "".
func (t *Task) Path() string {
	chain := t.FullPath()
	parts := make([]string, len(chain))
	for i, n := range chain {
		parts[i] = n.slug
	}
	return strings.Join(parts, "/")
}

// Descendants returns every node below t in pre-order.
func (t *Task) Descendants() []*Task {
	var out []*Task
	for _, c := range t.children {
		out = append(out, c)
		out = append(out, c.Descendants()...)
	}
	return out
}

// CountDescendants returns the number of nodes below t.
func (t *Task) CountDescendants() int {
	n := 0
	for _, c := range t.children {
		n += 1 + c.CountDescendants()
	}
	return n
}

// IsAncestorOf reports whether t lies on other's parent chain.
func (t *Task) IsAncestorOf(other *Task) bool {
	for n := other.parent; n != nil; n = n.parent {
		if n == t {
			return true
		}
	}
	return false
}

// Depth returns the number of edges between t and the root.
func (t *Task) Depth() int {
	d := 0
	for n := t.parent; n != nil; n = n.parent {
		d++
	}
	return d
}

func (t *Task) appendChild(c *Task) {
	c.parent = t
	t.children = append(t.children, c)
}

func (t *Task) removeChild(c *Task) bool {
	for i, n := range t.children {
		if n == c {
			t.children = append(t.children[:i:i], t.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// reparent moves t under newParent. Nothing changes when it fails.
func (t *Task) reparent(newParent *Task) error {
	switch {
	case t.parent == nil:
		return invalidOp("cannot move the root task")
	case newParent == nil:
		return invalidOp("move target is nil")
	case newParent == t:
		return invalidOp("cannot move a task under itself")
	case t.IsAncestorOf(newParent):
		return invalidOp("cannot move a task under its own descendant")
	case newParent == t.parent:
		return invalidOp("task is already a child of the target")
	}
	t.parent.removeChild(t)
	newParent.appendChild(t)
	return nil
}

func (t *Task) setContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}
	t.content = content
	t.slug = Slugify(content)
	return nil
}

func invalidOp(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, msg)
}
