// Package hierarchy provides pure traversal helpers over the two-level
// category forest: parents (nil ParentID) and their children. None of
// these functions mutate their input or touch the database.
package hierarchy

import (
	"sort"

	"centsible/internal/models"
)

// Node groups a parent category with its children for tree-shaped responses.
type Node struct {
	models.Category
	Children []models.Category `json:"children"`
}

// Build groups a flat category list into parent nodes with their children,
// both levels ordered by SortOrder.
func Build(categories []models.Category) []Node {
	parents := SortByOrder(Parents(categories))

	nodes := make([]Node, 0, len(parents))
	for _, p := range parents {
		nodes = append(nodes, Node{
			Category: p,
			Children: SortByOrder(ChildrenOf(categories, p.ID)),
		})
	}
	return nodes
}

// Flatten returns every category in the tree exactly once, each parent
// followed by its children.
func Flatten(nodes []Node) []models.Category {
	var flat []models.Category
	for _, n := range nodes {
		flat = append(flat, n.Category)
		flat = append(flat, n.Children...)
	}
	return flat
}

// FindByID looks up a category by ID in a flat list.
func FindByID(categories []models.Category, id string) (models.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// Parents returns all top-level categories.
func Parents(categories []models.Category) []models.Category {
	var parents []models.Category
	for _, c := range categories {
		if c.IsParent() {
			parents = append(parents, c)
		}
	}
	return parents
}

// Children returns all child categories across every parent.
func Children(categories []models.Category) []models.Category {
	var children []models.Category
	for _, c := range categories {
		if c.IsChild() {
			children = append(children, c)
		}
	}
	return children
}

// ParentOf returns the parent of the given child category. The second
// return value is false when childID denotes a parent or does not exist.
func ParentOf(categories []models.Category, childID string) (models.Category, bool) {
	child, ok := FindByID(categories, childID)
	if !ok || child.ParentID == nil {
		return models.Category{}, false
	}
	return FindByID(categories, *child.ParentID)
}

// ChildrenOf returns the children of the given parent category. The result
// is empty when the parent has no children or does not exist.
func ChildrenOf(categories []models.Category, parentID string) []models.Category {
	var children []models.Category
	for _, c := range categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			children = append(children, c)
		}
	}
	return children
}

// LookupEntry holds the display data for one category. ParentName is set
// only on child entries, for breadcrumb-style rendering.
type LookupEntry struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	ParentName string `json:"parent_name,omitempty"`
}

// LookupMap builds an ID-keyed display map with one entry per category.
func LookupMap(categories []models.Category) map[string]LookupEntry {
	m := make(map[string]LookupEntry, len(categories))
	for _, c := range categories {
		entry := LookupEntry{Name: c.Name, Color: c.Color}
		if c.ParentID != nil {
			if parent, ok := FindByID(categories, *c.ParentID); ok {
				entry.ParentName = parent.Name
			}
		}
		m[c.ID] = entry
	}
	return m
}

// SortByOrder returns a new slice sorted ascending by SortOrder. The sort
// is stable and the input is left untouched.
func SortByOrder(categories []models.Category) []models.Category {
	sorted := make([]models.Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})
	return sorted
}

// Renumber returns a new slice with SortOrder reassigned 1..n following
// the input's existing order. Used after a drag-reorder; the input is not
// mutated.
func Renumber(categories []models.Category) []models.Category {
	renumbered := make([]models.Category, len(categories))
	copy(renumbered, categories)
	for i := range renumbered {
		renumbered[i].SortOrder = i + 1
	}
	return renumbered
}
