package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolveTree(t *testing.T) (*Tree, map[string]*Task) {
	t.Helper()
	tree := NewTree()
	work := mustAdd(t, tree, "Work", nil)
	report := mustAdd(t, tree, "Quarterly Report", work)
	draft := mustAdd(t, tree, "draft", report)
	home := mustAdd(t, tree, "Home", nil)
	dup1 := mustAdd(t, tree, "dup", home)
	dup2 := mustAdd(t, tree, "DUP", home)
	require.NoError(t, tree.AssignID(report, "qr"))
	return tree, map[string]*Task{
		"work": work, "report": report, "draft": draft,
		"home": home, "dup1": dup1, "dup2": dup2,
	}
}

func TestTree_Resolve(t *testing.T) {
	tree, n := newResolveTree(t)
	require.NoError(t, tree.SetContext(n["work"]))

	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"empty is context", "", "work"},
		{"relative", "quarterly-report/draft", "draft"},
		{"relative case-insensitive", "QUARTERLY-REPORT", "report"},
		{"relative raw content", "Quarterly Report", "report"},
		{"absolute", "/home/dup", "dup1"},
		{"absolute first sibling wins", "/Home/dup", "dup1"},
		{"id anchor", "#qr", "report"},
		{"id anchor case-insensitive", "#QR/draft", "draft"},
		{"parent segment", "../home", "home"},
		{"dot segment", "./quarterly-report", "report"},
		{"trailing slash", "/work/", "work"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tree.Resolve(tt.address)
			require.NoError(t, err)
			assert.Same(t, n[tt.want], got)
		})
	}
}

func TestTree_Resolve_RootAddress(t *testing.T) {
	tree, n := newResolveTree(t)
	require.NoError(t, tree.SetContext(n["draft"]))

	got, err := tree.Resolve("/")

	require.NoError(t, err)
	assert.Same(t, tree.Root(), got)
}

func TestTree_Resolve_NotFound(t *testing.T) {
	tree, _ := newResolveTree(t)

	_, err := tree.Resolve("work/missing/draft")

	assert.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "work/missing/draft", nf.Address)
}

func TestTree_Resolve_UnknownIdentifier(t *testing.T) {
	tree, _ := newResolveTree(t)

	_, err := tree.Resolve("#Nope/draft")

	assert.ErrorIs(t, err, ErrUnknownIdentifier)
	var unk *UnknownIdentifierError
	require.True(t, errors.As(err, &unk))
	assert.Equal(t, "nope", unk.ID)
}

func TestIsRelativeAddress(t *testing.T) {
	assert.True(t, IsRelativeAddress("a/b"))
	assert.True(t, IsRelativeAddress(""))
	assert.False(t, IsRelativeAddress("/a"))
	assert.False(t, IsRelativeAddress("#id"))
}
