package derive

import (
	"strings"

	"fieldnotes/internal/model"
)

// FolderNode is the nested view of a folder, built from the flat folder collection.
type FolderNode struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	ParentID *string       `json:"parentId,omitempty"`
	Children []*FolderNode `json:"children"`
	PageIDs  []string      `json:"pageIds"`
}

// ProjectTree is a project's folders plus the project pages not filed in any folder.
type ProjectTree struct {
	ProjectID   string        `json:"projectId"`
	Folders     []*FolderNode `json:"folders"`
	RootPageIDs []string      `json:"rootPageIds"`
}

func ProjectFolders(folders []model.Folder, projectID string) []model.Folder {
	out := []model.Folder{}
	for _, f := range folders {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	return out
}

func ProjectPages(pages []model.Page, projectID string) []model.Page {
	out := []model.Page{}
	for _, p := range pages {
		if deref(p.ProjectID) == projectID {
			out = append(out, p)
		}
	}
	return out
}

func ProjectDocuments(docs []model.Document, projectID string) []model.Document {
	out := []model.Document{}
	for _, d := range docs {
		if deref(d.ProjectID) == projectID {
			out = append(out, d)
		}
	}
	return out
}

func ProjectCitations(citations []model.Citation, projectID string) []model.Citation {
	out := []model.Citation{}
	for _, c := range citations {
		if deref(c.ProjectID) == projectID {
			out = append(out, c)
		}
	}
	return out
}

// BuildProjectTree nests a project's folders by ParentID and files its pages by FolderID.
// Folders whose parent is missing (or in another project) are shown at the root, as are
// folders on a parent cycle and pages pointing at a missing folder.
func BuildProjectTree(folders []model.Folder, pages []model.Page, projectID string) ProjectTree {
	projectID = strings.TrimSpace(projectID)
	own := ProjectFolders(folders, projectID)

	// First pass: a node per folder.
	nodes := make(map[string]*FolderNode, len(own))
	for _, f := range own {
		nodes[f.ID] = &FolderNode{
			ID:       f.ID,
			Name:     f.Name,
			ParentID: f.ParentID,
			Children: []*FolderNode{},
			PageIDs:  []string{},
		}
	}

	// Second pass: attach children, keeping insertion order.
	tree := ProjectTree{ProjectID: projectID, Folders: []*FolderNode{}, RootPageIDs: []string{}}
	for _, f := range own {
		node := nodes[f.ID]
		if parent, ok := nodes[deref(f.ParentID)]; ok && !onCycle(nodes, f.ID) {
			parent.Children = append(parent.Children, node)
			continue
		}
		tree.Folders = append(tree.Folders, node)
	}

	// Third pass: file pages.
	for _, p := range ProjectPages(pages, projectID) {
		if node, ok := nodes[deref(p.FolderID)]; ok {
			node.PageIDs = append(node.PageIDs, p.ID)
			continue
		}
		tree.RootPageIDs = append(tree.RootPageIDs, p.ID)
	}
	return tree
}

// onCycle reports whether following ParentID from id leads back to id.
func onCycle(nodes map[string]*FolderNode, id string) bool {
	seen := map[string]bool{}
	for cur := id; ; {
		n, ok := nodes[cur]
		if !ok {
			return false
		}
		cur = deref(n.ParentID)
		if cur == id {
			return true
		}
		if cur == "" || seen[cur] {
			return false
		}
		seen[cur] = true
	}
}

// FolderPath returns folder names from the root down to id ("" if id is unknown).
func FolderPath(folders []model.Folder, id string) []string {
	byID := make(map[string]model.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	var path []string
	seen := map[string]bool{}
	for cur := strings.TrimSpace(id); cur != "" && !seen[cur]; {
		f, ok := byID[cur]
		if !ok {
			break
		}
		seen[cur] = true
		path = append([]string{f.Name}, path...)
		cur = deref(f.ParentID)
	}
	return path
}

// Descendants returns id and every folder below it.
func Descendants(folders []model.Folder, id string) map[string]bool {
	out := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, f := range folders {
			if out[f.ID] {
				continue
			}
			if out[deref(f.ParentID)] {
				out[f.ID] = true
				changed = true
			}
		}
	}
	return out
}
