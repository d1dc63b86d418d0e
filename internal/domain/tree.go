package domain

import (
	"fmt"
	"strings"
)

// DeletePolicy controls what happens to the children of a deleted task.
type DeletePolicy string

// Delete policies.
const (
	DeleteCascade  DeletePolicy = "cascade"  // Remove the whole subtree
	DeleteReparent DeletePolicy = "reparent" // Lift children to the deleted task's parent
)

// ParseDeletePolicy parses a policy name. An empty name yields DeleteCascade.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeleteCascade:
		return DeleteCascade, nil
	case DeleteReparent:
		return DeleteReparent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// ConfirmFunc decides whether a deletion proceeds.
// descendants is the number of nodes below the task.
type ConfirmFunc func(task *Task, descendants int) (bool, error)

// ChooseFunc picks one task out of several candidates.
type ChooseFunc func(candidates []*Task) (*Task, error)

// Tree owns the task hierarchy, the current context and both lookup indexes.
// Every mutating method leaves the indexes consistent before returning.
// Fields are ordered to minimize memory padding.
type Tree struct {
	root      *Task
	context   *Task
	pathIndex map[string]*Task
	idIndex   map[string]*Task
	paths     []string
	policy    DeletePolicy
}

// NewTree creates a tree holding only the root task.
func NewTree() *Tree {
	root := &Task{content: RootContent, slug: Slugify(RootContent)}
	t := &Tree{
		root:    root,
		context: root,
		policy:  DeleteCascade,
	}
	t.Reindex()
	return t
}

// SetDeletePolicy changes how DeleteTask treats children.
func (t *Tree) SetDeletePolicy(p DeletePolicy) {
	t.policy = p
}

// Policy returns the active delete policy.
func (t *Tree) Policy() DeletePolicy {
	return t.policy
}

// Root returns the sentinel root task.
func (t *Tree) Root() *Task { return t.root }

// Context returns the current context task.
func (t *Tree) Context() *Task { return t.context }

// SetContext makes task the current context.
func (t *Tree) SetContext(task *Task) error {
	if !t.contains(task) {
		return invalidOp("context task is not part of this tree")
	}
	t.context = task
	return nil
}

// Home resets the current context to the root.
func (t *Tree) Home() {
	t.context = t.root
}

// Len returns the number of tasks excluding the root.
func (t *Tree) Len() int {
	return t.root.CountDescendants()
}

func (t *Tree) contains(task *Task) bool {
	return task != nil && (task == t.root || t.root.IsAncestorOf(task))
}

// AddTask creates a task under parent, or under the current context when parent is nil.
func (t *Tree) AddTask(content string, parent *Task, due Date) (*Task, error) {
	if parent == nil {
		parent = t.context
	}
	if !t.contains(parent) {
		return nil, invalidOp("parent task is not part of this tree")
	}
	task, err := newTask(content, due)
	if err != nil {
		return nil, err
	}
	parent.appendChild(task)
	t.Reindex()
	return task, nil
}

// DeleteTask removes task after confirm agrees. A nil confirm always agrees.
// It reports false, with a nil error, when the confirmation declined.
func (t *Tree) DeleteTask(task *Task, confirm ConfirmFunc) (bool, error) {
	if task == t.root {
		return false, invalidOp("cannot delete the root task")
	}
	if !t.contains(task) {
		return false, invalidOp("task is not part of this tree")
	}
	if confirm != nil {
		ok, err := confirm(task, task.CountDescendants())
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	parent := task.parent
	switch t.policy {
	case DeleteReparent:
		idx := indexOf(parent.children, task)
		lifted := task.children
		task.children = nil
		merged := make([]*Task, 0, len(parent.children)-1+len(lifted))
		merged = append(merged, parent.children[:idx]...)
		merged = append(merged, lifted...)
		merged = append(merged, parent.children[idx+1:]...)
		for _, c := range lifted {
			c.parent = parent
		}
		parent.children = merged
		task.parent = nil
	default:
		parent.removeChild(task)
	}

	if !t.contains(t.context) {
		t.context = t.root
	}
	t.Reindex()
	return true, nil
}

// MoveTask re-parents task under newParent.
func (t *Tree) MoveTask(task, newParent *Task) error {
	if !t.contains(task) || !t.contains(newParent) {
		return invalidOp("task is not part of this tree")
	}
	if err := task.reparent(newParent); err != nil {
		return err
	}
	t.Reindex()
	return nil
}

// Rename replaces the content (and therefore the slug) of task.
func (t *Tree) Rename(task *Task, content string) error {
	if task == t.root {
		return invalidOp("cannot rename the root task")
	}
	if !t.contains(task) {
		return invalidOp("task is not part of this tree")
	}
	if err := task.setContent(content); err != nil {
		return err
	}
	t.Reindex()
	return nil
}

// SetDue replaces the due date of task. The zero Date clears it.
func (t *Tree) SetDue(task *Task, due Date) error {
	if !t.contains(task) {
		return invalidOp("task is not part of this tree")
	}
	task.due = due
	return nil
}

// NormalizeID lower-cases and trims a unique id.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ValidateID checks that id can be used as a unique id.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if strings.ContainsAny(id, "/# \t\n") {
		return fmt.Errorf("%w: %q contains '/', '#' or whitespace", ErrInvalidID, id)
	}
	return nil
}

// AssignID binds a unique id to task, releasing any id it held before.
func (t *Tree) AssignID(task *Task, id string) error {
	id = NormalizeID(id)
	if err := ValidateID(id); err != nil {
		return err
	}
	if !t.contains(task) {
		return invalidOp("task is not part of this tree")
	}
	if existing, ok := t.idIndex[id]; ok {
		if existing == task {
			return nil
		}
		return &IdentifierConflictError{ID: id, ExistingPath: existing.Path()}
	}
	if task.uid != "" {
		delete(t.idIndex, task.uid)
	}
	task.uid = id
	t.idIndex[id] = task
	return nil
}

// ClearID releases the unique id held by task, if any.
func (t *Tree) ClearID(task *Task) {
	if task.uid == "" {
		return
	}
	delete(t.idIndex, task.uid)
	task.uid = ""
}

// ByID returns the task bound to id.
func (t *Tree) ByID(id string) (*Task, bool) {
	task, ok := t.idIndex[NormalizeID(id)]
	return task, ok
}

// Lookup returns the task indexed under an exact path.
func (t *Tree) Lookup(path string) (*Task, bool) {
	task, ok := t.pathIndex[strings.Trim(path, "/")]
	return task, ok
}

// Paths returns every indexed path in traversal order, the root's "" excluded.
func (t *Tree) Paths() []string {
	out := make([]string, 0, len(t.paths))
	for _, p := range t.paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IDs returns a copy of the id to path mapping.
func (t *Tree) IDs() map[string]string {
	out := make(map[string]string, len(t.idIndex))
	for id, task := range t.idIndex {
		out[id] = task.Path()
	}
	return out
}

// Walk visits every task in pre-order, root first. Returning false skips the subtree.
func (t *Tree) Walk(fn func(task *Task, depth int) bool) {
	var visit func(n *Task, depth int)
	visit = func(n *Task, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.children {
			visit(c, depth+1)
		}
	}
	visit(t.root, 0)
}

// Reindex rebuilds the path and id indexes from the root.
// When two tasks share a path, the first one visited keeps it.
func (t *Tree) Reindex() {
	t.pathIndex = make(map[string]*Task)
	t.idIndex = make(map[string]*Task)
	t.paths = t.paths[:0]
	t.Walk(func(n *Task, _ int) bool {
		p := n.Path()
		if _, dup := t.pathIndex[p]; !dup {
			t.pathIndex[p] = n
			t.paths = append(t.paths, p)
		}
		if n.uid != "" {
			if _, dup := t.idIndex[n.uid]; !dup {
				t.idIndex[n.uid] = n
			}
		}
		return true
	})
}

// Search returns the task at the exact path query, or else every task whose
// path ends with query. The fallback walks depth-first, right-to-left.
func (t *Tree) Search(query string) []*Task {
	q := normalizeQuery(query)
	if q == "" {
		return nil
	}
	if task, ok := t.pathIndex[q]; ok {
		return []*Task{task}
	}

	var matches []*Task
	stack := t.root.Children()
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if strings.HasSuffix(n.Path(), q) {
			matches = append(matches, n)
		}
		stack = append(stack, n.children...)
	}
	return matches
}

// ResolveKeyword searches for keyword and disambiguates multiple hits with choose.
// A nil choose makes multiple hits fail with ErrNotFound.
func (t *Tree) ResolveKeyword(keyword string, choose ChooseFunc) (*Task, error) {
	matches := t.Search(keyword)
	switch {
	case len(matches) == 0:
		return nil, &NotFoundError{Address: keyword}
	case len(matches) == 1:
		return matches[0], nil
	case choose == nil:
		return nil, fmt.Errorf("%w: %d tasks match %q", ErrNotFound, len(matches), keyword)
	}
	chosen, err := choose(matches)
	if err != nil {
		return nil, err
	}
	if chosen == nil {
		return nil, ErrNoChoice
	}
	return chosen, nil
}

// normalizeQuery slugifies each segment of a search query.
func normalizeQuery(query string) string {
	query = strings.Trim(strings.TrimSpace(query), "/")
	if query == "" {
		return ""
	}
	segs := strings.Split(query, "/")
	for i, s := range segs {
		segs[i] = Slugify(s)
	}
	return strings.Join(segs, "/")
}

func indexOf(list []*Task, task *Task) int {
	for i, n := range list {
		if n == task {
			return i
		}
	}
	return -1
}

// NameNode is a read-only copy of the tree's names, used for completion.
type NameNode struct {
	Slug     string
	Content  string
	ID       string
	Path     string
	Children []NameNode
}

// Names returns a detached snapshot of every slug, content and id.
func (t *Tree) Names() NameNode {
	var build func(n *Task) NameNode
	build = func(n *Task) NameNode {
		node := NameNode{Slug: n.slug, Content: n.content, ID: n.uid, Path: n.Path()}
		for _, c := range n.children {
			node.Children = append(node.Children, build(c))
		}
		return node
	}
	return build(t.root)
}
