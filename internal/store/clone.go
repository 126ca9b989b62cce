package store

import (
	"slices"

	"fieldnotes/internal/model"
)

// Clone returns a deep copy. Mutations on the copy never reach the original, which lets
// callers build the next state and only swap it in once it has been saved.
func (db *DB) Clone() *DB {
	if db == nil {
		return nil
	}
	out := &DB{
		Version:   db.Version,
		Nav:       db.Nav,
		Pages:     make([]model.Page, len(db.Pages)),
		Projects:  make([]model.Project, len(db.Projects)),
		Folders:   make([]model.Folder, len(db.Folders)),
		Documents: make([]model.Document, len(db.Documents)),
		Citations: make([]model.Citation, len(db.Citations)),
	}
	for i, p := range db.Pages {
		out.Pages[i] = ClonePage(p)
	}
	for i, p := range db.Projects {
		out.Projects[i] = CloneProject(p)
	}
	for i, f := range db.Folders {
		out.Folders[i] = CloneFolder(f)
	}
	for i, d := range db.Documents {
		out.Documents[i] = CloneDocument(d)
	}
	for i, c := range db.Citations {
		out.Citations[i] = CloneCitation(c)
	}
	return out
}

func ClonePage(p model.Page) model.Page {
	p.ProjectID = cloneStr(p.ProjectID)
	p.FolderID = cloneStr(p.FolderID)
	p.Tags = slices.Clone(p.Tags)
	p.CustomFields = CloneFields(p.CustomFields)
	p.Versions = slices.Clone(p.Versions)
	return p
}

func CloneProject(p model.Project) model.Project {
	if p.Deadline != nil {
		d := *p.Deadline
		p.Deadline = &d
	}
	p.Tags = slices.Clone(p.Tags)
	p.CustomFields = CloneFields(p.CustomFields)
	return p
}

func CloneFolder(f model.Folder) model.Folder {
	f.ParentID = cloneStr(f.ParentID)
	return f
}

func CloneDocument(d model.Document) model.Document {
	d.ProjectID = cloneStr(d.ProjectID)
	d.Tags = slices.Clone(d.Tags)
	d.Highlights = slices.Clone(d.Highlights)
	d.Annotations = slices.Clone(d.Annotations)
	for i := range d.Annotations {
		d.Annotations[i].HighlightID = cloneStr(d.Annotations[i].HighlightID)
	}
	return d
}

func CloneCitation(c model.Citation) model.Citation {
	c.Authors = slices.Clone(c.Authors)
	c.Tags = slices.Clone(c.Tags)
	c.ProjectID = cloneStr(c.ProjectID)
	if c.AccessedAt != nil {
		a := *c.AccessedAt
		c.AccessedAt = &a
	}
	return c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
