package docsystem

import (
	"testing"

	models "docum/internal/domain/models/docsystem"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func doc(name string, major, minor int) *models.Document {
	return &models.Document{Name: name, Version: models.Version{Major: major, Minor: minor}}
}

func TestRenderFolderGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	nested := &models.Folder{
		Name: "Root",
		Folders: []*models.Folder{
			{
				Name: "Reports",
				Folders: []*models.Folder{
					{Name: "Drafts", Documents: []*models.Document{doc("Outline", 0, 2)}},
				},
				Documents: []*models.Document{doc("Q1", 1, 0)},
			},
			{Name: "Archive"},
		},
		Documents: []*models.Document{doc("Notes", 0, 0)},
	}

	tests := []struct {
		name string
		root *models.Folder
	}{
		{name: "nested_tree", root: nested},
		{name: "empty_tree", root: &models.Folder{Name: "Root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, []byte(NewTreeRenderer().RenderFolder(tt.root)))
		})
	}
}

func TestRenderContinuationColumns(t *testing.T) {
	// A deep last branch must not draw a column for the root.
	nodes := []TreeNode{
		{Name: "Root", IsFolder: true, IsLast: true},
		{Name: "a", IsFolder: true, Depth: 1, IsLast: true},
		{Name: "b", IsFolder: true, Depth: 2, IsLast: true},
	}
	assert.Equal(t, "Root/\n└── a/\n    └── b/", NewTreeRenderer().Render(nodes))
	assert.Empty(t, NewTreeRenderer().Render(nil))
	assert.Empty(t, NewTreeRenderer().RenderFolder(nil))
}
