package tree

import (
	"errors"
	"testing"
	"time"

	"docum/internal/domain"
	models "docum/internal/domain/models/docsystem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// buildTree returns root -> {a, b -> {c -> {d}}, e} with two documents in a
// and one in d. a is a leaf, so b and e are only reachable by continuing
// sibling iteration past it.
func buildTree(t *testing.T) (root, a, b, c, d, e *models.Folder) {
	t.Helper()

	root = models.NewFolder("Root", "owner", fixedNow)
	a = models.NewFolder("a", "owner", fixedNow)
	b = models.NewFolder("b", "owner", fixedNow)
	c = models.NewFolder("c", "owner", fixedNow)
	d = models.NewFolder("d", "owner", fixedNow)
	e = models.NewFolder("e", "owner", fixedNow)

	root.AddFolder(a)
	root.AddFolder(b)
	root.AddFolder(e)
	b.AddFolder(c)
	c.AddFolder(d)

	a.AddDocument(models.NewDocument(fixedNow))
	a.AddDocument(models.NewDocument(fixedNow))
	d.AddDocument(models.NewDocument(fixedNow))
	return root, a, b, c, d, e
}

func TestApplyFolder(t *testing.T) {
	root, a, b, c, d, e := buildTree(t)

	tests := []struct {
		name   string
		target *models.Folder
	}{
		{name: "root", target: root},
		{name: "leaf first child", target: a},
		{name: "sibling after leaf", target: b},
		{name: "last sibling", target: e},
		{name: "middle of chain", target: c},
		{name: "deepest", target: d},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Apply(root, tt.target.ID, ByFolderID, func(f *models.Folder) {
				calls++
				assert.Same(t, tt.target, f)
			})
			require.NoError(t, err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestApplyMutatesOnlyTarget(t *testing.T) {
	root, _, _, _, d, _ := buildTree(t)
	before := root.Clone()

	err := Apply(root, d.ID, ByFolderID, func(f *models.Folder) {
		f.Name = "xxxx"
	})
	require.NoError(t, err)
	assert.Equal(t, "xxxx", d.Name)

	// Undo the single expected change; everything else must be untouched.
	d.Name = "d"
	assert.Equal(t, before, root)
}

func TestApplyDocument(t *testing.T) {
	root, a, _, _, d, _ := buildTree(t)

	tests := []struct {
		name   string
		target *models.Document
	}{
		{name: "first in folder", target: a.Documents[0]},
		{name: "second in folder", target: a.Documents[1]},
		{name: "nested three levels down", target: d.Documents[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Apply(root, tt.target.ID, ByDocumentID, func(doc *models.Document) {
				calls++
				doc.Content = "changed " + tt.name
			})
			require.NoError(t, err)
			assert.Equal(t, 1, calls)
			assert.Equal(t, "changed "+tt.name, tt.target.Content)
		})
	}
}

func TestApplyNotFound(t *testing.T) {
	root, _, _, _, _, _ := buildTree(t)
	before := root.Clone()

	tests := []struct {
		name  string
		apply func() error
	}{
		{
			name: "folder",
			apply: func() error {
				return Apply(root, "missing", ByFolderID, func(f *models.Folder) { f.Name = "x" })
			},
		},
		{
			name: "document",
			apply: func() error {
				return Apply(root, "missing", ByDocumentID, func(d *models.Document) { d.Content = "x" })
			},
		},
		{
			name: "folder id used as document id",
			apply: func() error {
				return Apply(root, root.Folders[0].ID, ByDocumentID, func(d *models.Document) { d.Content = "x" })
			},
		},
		{
			name: "nil root",
			apply: func() error {
				return Apply(nil, "missing", ByFolderID, func(f *models.Folder) { f.Name = "x" })
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.apply()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrNotFound))
			assert.Equal(t, before, root)
		})
	}
}

func TestApplyStopsAtFirstMatch(t *testing.T) {
	root := models.NewFolder("Root", "owner", fixedNow)
	first := models.NewFolder("dup", "owner", fixedNow)
	second := models.NewFolder("dup", "owner", fixedNow)
	root.AddFolder(first)
	root.AddFolder(second)

	byName := func(f *models.Folder, name string) bool { return f.Name == name }
	calls := 0
	err := Apply(root, "dup", byName, func(f *models.Folder) {
		calls++
		f.Name = "renamed"
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "renamed", first.Name)
	assert.Equal(t, "dup", second.Name)
}

func TestFindHelpers(t *testing.T) {
	root, _, _, c, d, _ := buildTree(t)

	f, err := FindFolder(root, c.ID)
	require.NoError(t, err)
	assert.Same(t, c, f)

	doc, err := FindDocument(root, d.Documents[0].ID)
	require.NoError(t, err)
	assert.Same(t, d.Documents[0], doc)

	_, err = FindFolder(root, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "folder nope")

	_, err = FindDocument(root, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "document nope")
}

func TestWalkDepthCount(t *testing.T) {
	root, _, b, _, _, _ := buildTree(t)

	var names []string
	Walk(root, func(f *models.Folder, depth int) bool {
		names = append(names, f.Name)
		return true
	})
	assert.Equal(t, []string{"Root", "a", "b", "c", "d", "e"}, names)

	names = nil
	Walk(root, func(f *models.Folder, depth int) bool {
		names = append(names, f.Name)
		return f != b
	})
	assert.Equal(t, []string{"Root", "a", "b", "e"}, names)

	assert.Equal(t, 4, Depth(root))
	assert.Equal(t, 0, Depth(nil))

	folders, documents := Count(root)
	assert.Equal(t, 6, folders)
	assert.Equal(t, 3, documents)
}
