package docsystem

import (
	"strings"

	models "docum/internal/domain/models/docsystem"
)

// TreeNode is one line of a rendered tree.
type TreeNode struct {
	Name     string
	IsFolder bool
	Depth    int
	IsLast   bool   // last child of its parent
	Metadata string // pre-rendered, e.g. "(v1.3)"
}

// TreeRenderer renders a folder tree with ASCII box-drawing characters.
//
// Example output:
//
//	Root/
//	├── Reports/
//	│   └── New Document (v0.1)
//	└── New Document (v0.0)
type TreeRenderer struct{}

// NewTreeRenderer creates a new TreeRenderer instance.
func NewTreeRenderer() *TreeRenderer {
	return &TreeRenderer{}
}

// RenderFolder flattens root and renders it. Sub-folders are listed before
// documents, each in stored order.
func (r *TreeRenderer) RenderFolder(root *models.Folder) string {
	if root == nil {
		return ""
	}
	nodes := []TreeNode{{Name: root.Name, IsFolder: true, IsLast: true}}
	return r.Render(flatten(root, 1, nodes))
}

func flatten(f *models.Folder, depth int, nodes []TreeNode) []TreeNode {
	total := len(f.Folders) + len(f.Documents)
	i := 0
	for _, child := range f.Folders {
		i++
		nodes = append(nodes, TreeNode{
			Name:     child.Name,
			IsFolder: true,
			Depth:    depth,
			IsLast:   i == total,
		})
		nodes = flatten(child, depth+1, nodes)
	}
	for _, doc := range f.Documents {
		i++
		nodes = append(nodes, TreeNode{
			Name:     doc.Name,
			Depth:    depth,
			IsLast:   i == total,
			Metadata: "(v" + doc.Version.String() + ")",
		})
	}
	return nodes
}

// Render converts pre-flattened nodes into the tree text. Each node must
// carry its depth and IsLast flag. No trailing newline is written.
func (r *TreeRenderer) Render(nodes []TreeNode) string {
	if len(nodes) == 0 {
		return ""
	}

	var result strings.Builder

	// depths whose current node still has siblings below
	continuations := make(map[int]bool)

	for i, node := range nodes {
		line := r.buildPrefix(node.Depth, node.IsLast, continuations) + node.Name
		if node.IsFolder && !strings.HasSuffix(node.Name, "/") {
			line += "/"
		}
		if node.Metadata != "" {
			line += " " + node.Metadata
		}
		result.WriteString(line)

		if i < len(nodes)-1 {
			result.WriteString("\n")
		}

		if node.IsLast {
			delete(continuations, node.Depth)
		} else {
			continuations[node.Depth] = true
		}
	}

	return result.String()
}

// buildPrefix draws one column per ancestor below the root, then the branch.
func (r *TreeRenderer) buildPrefix(depth int, isLast bool, continuations map[int]bool) string {
	if depth == 0 {
		return ""
	}

	var prefix strings.Builder
	for d := 1; d < depth; d++ {
		if continuations[d] {
			prefix.WriteString("│   ")
		} else {
			prefix.WriteString("    ")
		}
	}

	if isLast {
		prefix.WriteString("└── ")
	} else {
		prefix.WriteString("├── ")
	}
	return prefix.String()
}
