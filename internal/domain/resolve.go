package domain

import (
	"strings"
)

// Address markers.
const (
	IDMarker       = "#"
	AbsoluteMarker = "/"
)

// Resolve interprets an address and returns the task it names.
//
//	#id[/seg...]  anchored on a unique id
//	/seg/...      absolute from the root
//	seg/...       relative to the current context
//	""            the current context
//
// Segments match child slugs case-insensitively; the first matching child wins.
func (t *Tree) Resolve(address string) (*Task, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return t.context, nil
	}

	start := t.context
	rest := address
	switch {
	case strings.HasPrefix(address, IDMarker):
		id, tail, _ := strings.Cut(address[len(IDMarker):], "/")
		anchor, ok := t.ByID(id)
		if !ok {
			return nil, &UnknownIdentifierError{ID: NormalizeID(id)}
		}
		start, rest = anchor, tail
	case strings.HasPrefix(address, AbsoluteMarker):
		start, rest = t.root, address
	}

	node := start
	for _, seg := range strings.Split(rest, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if node.parent != nil {
				node = node.parent
			}
			continue
		}
		next := childBySlug(node, seg)
		if next == nil {
			return nil, &NotFoundError{Address: address}
		}
		node = next
	}
	return node, nil
}

// IsRelativeAddress reports whether address is neither id-anchored nor absolute.
func IsRelativeAddress(address string) bool {
	return !strings.HasPrefix(address, IDMarker) && !strings.HasPrefix(address, AbsoluteMarker)
}

func childBySlug(parent *Task, segment string) *Task {
	for _, c := range parent.children {
		if SlugEqual(segment, c.slug) {
			return c
		}
	}
	return nil
}
