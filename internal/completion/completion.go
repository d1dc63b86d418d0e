// Package completion suggests commands, task paths and ids for the input line.
package completion

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/runoshun/della/internal/domain"
)

// Kind classifies a candidate.
type Kind int

// Candidate kinds.
const (
	KindCommand Kind = iota
	KindPath
	KindID
)

// Candidate is one suggestion for the token under the cursor.
type Candidate struct {
	Text    string // Replacement token, markers included
	Display string // Short label for menus
	Kind    Kind
}

// Provider completes the last token of a line against a name snapshot.
// Fields are ordered to minimize memory padding.
type Provider struct {
	root    domain.NameNode
	context *domain.NameNode
}

// New creates a Provider. contextPath is the current context's path ("" for root).
func New(root domain.NameNode, contextPath string) *Provider {
	p := &Provider{root: root}
	p.context = p.find(&p.root, contextPath)
	if p.context == nil {
		p.context = &p.root
	}
	return p
}

// LastToken returns the whitespace-delimited token at the end of line.
// It is empty when line ends in whitespace.
func LastToken(line string) string {
	if line == "" || strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return ""
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Apply replaces the last token of line with c.
func Apply(line string, c Candidate) string {
	token := LastToken(line)
	return line[:len(line)-len(token)] + c.Text
}

// Complete returns candidates for the last token of line, best first.
func (p *Provider) Complete(line string) []Candidate {
	token := LastToken(line)
	switch {
	case strings.HasPrefix(token, domain.CommandMarker):
		return completeCommands(strings.TrimPrefix(token, domain.CommandMarker))
	case strings.HasPrefix(token, domain.IDMarker+domain.IDMarker):
		return p.completeID(strings.TrimPrefix(token, domain.IDMarker+domain.IDMarker))
	case strings.HasPrefix(token, domain.IDMarker):
		return p.completeAddress(strings.TrimPrefix(token, domain.IDMarker))
	default:
		return nil
	}
}

func completeCommands(pattern string) []Candidate {
	names := domain.CommandNames()
	var out []Candidate
	for _, i := range rank(pattern, names) {
		out = append(out, Candidate{
			Text:    domain.CommandMarker + names[i],
			Display: names[i],
			Kind:    KindCommand,
		})
	}
	return out
}

// completeID handles "##id" and "##id/seg...".
func (p *Provider) completeID(rest string) []Candidate {
	prefix := domain.IDMarker + domain.IDMarker
	if i := strings.Index(rest, domain.AbsoluteMarker); i >= 0 {
		anchor := p.byID(rest[:i])
		if anchor == nil {
			return nil
		}
		return p.completeUnder(anchor, prefix+rest[:i+1], rest[i+1:])
	}

	var ids []string
	walk(&p.root, func(n *domain.NameNode) {
		if n.ID != "" {
			ids = append(ids, n.ID)
		}
	})
	sort.Strings(ids)
	var out []Candidate
	for _, i := range rank(rest, ids) {
		out = append(out, Candidate{Text: prefix + ids[i], Display: ids[i], Kind: KindID})
	}
	return out
}

// completeAddress handles "#seg/..." (relative) and "#/seg/..." (absolute).
func (p *Provider) completeAddress(rest string) []Candidate {
	if strings.HasPrefix(rest, domain.AbsoluteMarker) {
		return p.completeUnder(&p.root, domain.IDMarker+domain.AbsoluteMarker, rest[1:])
	}
	out := p.completeUnder(p.context, domain.IDMarker, rest)
	if !strings.Contains(rest, domain.AbsoluteMarker) {
		out = append(out, p.completeUnique(domain.IDMarker, rest, out)...)
	}
	return out
}

// completeUnder walks the complete segments of rest from base and ranks
// children of the final node against the trailing fragment.
func (p *Provider) completeUnder(base *domain.NameNode, prefix, rest string) []Candidate {
	segments := strings.Split(rest, domain.AbsoluteMarker)
	fragment := segments[len(segments)-1]
	node := base
	for _, seg := range segments[:len(segments)-1] {
		node = p.step(node, seg)
		if node == nil {
			return nil
		}
		prefix += seg + domain.AbsoluteMarker
	}

	slugs := make([]string, len(node.Children))
	for i, c := range node.Children {
		slugs[i] = c.Slug
	}
	var out []Candidate
	for _, i := range rank(fragment, slugs) {
		out = append(out, Candidate{
			Text:    prefix + slugs[i],
			Display: node.Children[i].Content,
			Kind:    KindPath,
		})
	}
	return out
}

// completeUnique suggests slugs found exactly once anywhere below the root,
// so a bare keyword can reach deep tasks.
func (p *Provider) completeUnique(prefix, fragment string, seen []Candidate) []Candidate {
	if fragment == "" {
		return nil
	}
	counts := make(map[string]int)
	contents := make(map[string]string)
	walk(&p.root, func(n *domain.NameNode) {
		if n.Path == "" {
			return
		}
		counts[n.Slug]++
		contents[n.Slug] = n.Content
	})
	already := make(map[string]bool, len(seen))
	for _, c := range seen {
		already[c.Text] = true
	}

	var slugs []string
	for s, n := range counts {
		if n == 1 && !already[prefix+s] {
			slugs = append(slugs, s)
		}
	}
	sort.Strings(slugs)
	var out []Candidate
	for _, i := range rank(fragment, slugs) {
		out = append(out, Candidate{Text: prefix + slugs[i], Display: contents[slugs[i]], Kind: KindPath})
	}
	return out
}

func (p *Provider) step(node *domain.NameNode, seg string) *domain.NameNode {
	switch seg {
	case "", ".":
		return node
	case "..":
		parent := p.parentOf(&p.root, node)
		if parent == nil {
			return node
		}
		return parent
	}
	for i := range node.Children {
		if domain.SlugEqual(seg, node.Children[i].Slug) {
			return &node.Children[i]
		}
	}
	return nil
}

func (p *Provider) parentOf(at, target *domain.NameNode) *domain.NameNode {
	for i := range at.Children {
		if &at.Children[i] == target {
			return at
		}
		if found := p.parentOf(&at.Children[i], target); found != nil {
			return found
		}
	}
	return nil
}

func (p *Provider) find(at *domain.NameNode, path string) *domain.NameNode {
	if at.Path == path {
		return at
	}
	for i := range at.Children {
		if found := p.find(&at.Children[i], path); found != nil {
			return found
		}
	}
	return nil
}

func (p *Provider) byID(id string) *domain.NameNode {
	id = domain.NormalizeID(id)
	var found *domain.NameNode
	walk(&p.root, func(n *domain.NameNode) {
		if found == nil && n.ID != "" && n.ID == id {
			found = n
		}
	})
	return found
}

func walk(n *domain.NameNode, fn func(*domain.NameNode)) {
	fn(n)
	for i := range n.Children {
		walk(&n.Children[i], fn)
	}
}

// rank returns indexes of data matching pattern, best first.
// An empty pattern keeps every entry in order.
func rank(pattern string, data []string) []int {
	if pattern == "" {
		out := make([]int, len(data))
		for i := range data {
			out[i] = i
		}
		return out
	}
	matches := fuzzy.Find(strings.ToLower(pattern), data)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}
