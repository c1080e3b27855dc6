// Package tree locates folders and documents by id inside a user's folder
// tree and applies in-place mutations.
package tree

import (
	"fmt"

	"docum/internal/domain"
	models "docum/internal/domain/models/docsystem"
)

// Node is a kind of tree node that can be located.
type Node interface {
	*models.Folder | *models.Document
}

// MatchFunc decides whether a visited node is the target.
type MatchFunc[T Node] func(candidate T, targetID string) bool

// ByFolderID matches a folder by its id.
func ByFolderID(f *models.Folder, id string) bool { return f.ID == id }

// ByDocumentID matches a document by its id.
func ByDocumentID(d *models.Document, id string) bool { return d.ID == id }

// Apply searches root depth-first for the first node of kind T accepted by
// match and calls mutate on it exactly once.
//
// Folder kind: each folder is tested before its children.
// Document kind: the documents held directly by a folder are tested in order
// before descending into its children.
//
// Sibling iteration continues until a match is found or the subtree is
// exhausted. When nothing matches, nothing is mutated and the returned error
// wraps domain.ErrNotFound.
func Apply[T Node](root *models.Folder, targetID string, match MatchFunc[T], mutate func(T)) error {
	found, ok := locate(root, targetID, match)
	if !ok {
		return notFound[T](targetID)
	}
	if mutate != nil {
		mutate(found)
	}
	return nil
}

// Find returns the first node of kind T accepted by match without mutating.
func Find[T Node](root *models.Folder, targetID string, match MatchFunc[T]) (T, error) {
	found, ok := locate(root, targetID, match)
	if !ok {
		var zero T
		return zero, notFound[T](targetID)
	}
	return found, nil
}

// FindFolder locates a folder by id.
func FindFolder(root *models.Folder, id string) (*models.Folder, error) {
	return Find(root, id, ByFolderID)
}

// FindDocument locates a document by id.
func FindDocument(root *models.Folder, id string) (*models.Document, error) {
	return Find(root, id, ByDocumentID)
}

func locate[T Node](root *models.Folder, targetID string, match MatchFunc[T]) (T, bool) {
	var zero T
	if root == nil || match == nil {
		return zero, false
	}
	_, folderKind := any(zero).(*models.Folder)
	return visit(root, targetID, match, folderKind)
}

func visit[T Node](folder *models.Folder, targetID string, match MatchFunc[T], folderKind bool) (T, bool) {
	var zero T
	if folder == nil {
		return zero, false
	}

	if folderKind {
		candidate := any(folder).(T)
		if match(candidate, targetID) {
			return candidate, true
		}
	} else {
		for _, doc := range folder.Documents {
			if doc == nil {
				continue
			}
			candidate := any(doc).(T)
			if match(candidate, targetID) {
				return candidate, true
			}
		}
	}

	for _, child := range folder.Folders {
		if found, ok := visit(child, targetID, match, folderKind); ok {
			return found, true
		}
	}
	return zero, false
}

func notFound[T Node](targetID string) error {
	var zero T
	kind := "document"
	if _, ok := any(zero).(*models.Folder); ok {
		kind = "folder"
	}
	return fmt.Errorf("%s %s: %w", kind, targetID, domain.ErrNotFound)
}

// Walk visits every folder of root in pre-order with its depth (root = 0).
// Returning false from fn skips the folder's children.
func Walk(root *models.Folder, fn func(f *models.Folder, depth int) bool) {
	walk(root, 0, fn)
}

func walk(f *models.Folder, depth int, fn func(*models.Folder, int) bool) {
	if f == nil {
		return
	}
	if !fn(f, depth) {
		return
	}
	for _, child := range f.Folders {
		walk(child, depth+1, fn)
	}
}

// Depth returns the number of folder levels in root (a lone root is 1).
func Depth(root *models.Folder) int {
	max := 0
	Walk(root, func(_ *models.Folder, depth int) bool {
		if depth+1 > max {
			max = depth + 1
		}
		return true
	})
	return max
}

// Count returns the number of folders and documents under root, root included.
func Count(root *models.Folder) (folders, documents int) {
	Walk(root, func(f *models.Folder, _ int) bool {
		folders++
		documents += len(f.Documents)
		return true
	})
	return folders, documents
}
