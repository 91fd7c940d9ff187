// Package note holds free-form notes and the directory that owns them.
package note

import (
	"errors"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// ErrEmptyTitle indicates a note was created without a title.
var ErrEmptyTitle = errors.New("note: title cannot be empty")

// Note is a titled piece of text.
type Note struct {
	title       string
	description string
}

// New creates a note. The description may be empty.
func New(title, description string) (*Note, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return &Note{title: title, description: description}, nil
}

func (n *Note) Title() string       { return n.title }
func (n *Note) Description() string { return n.description }

// EditDescription replaces the description unconditionally.
func (n *Note) EditDescription(text string) {
	n.description = text
}

// Render returns the title line followed by the description line.
func (n *Note) Render() string {
	return "Title: " + n.title + "\nDescription: " + n.description
}

// Directory is an ordered collection of notes keyed by title.
type Directory struct {
	notes map[string]*Note
	order []string
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{notes: make(map[string]*Note)}
}

// Add stores n under its title, replacing any note with the same title.
func (d *Directory) Add(n *Note) {
	if _, ok := d.notes[n.title]; !ok {
		d.order = append(d.order, n.title)
	}
	d.notes[n.title] = n
}

// Find returns the note with exactly the given title.
func (d *Directory) Find(title string) (*Note, bool) {
	n, ok := d.notes[title]
	return n, ok
}

// Delete removes the titled note and reports whether it existed.
func (d *Directory) Delete(title string) bool {
	if _, ok := d.notes[title]; !ok {
		return false
	}
	delete(d.notes, title)
	d.order = slices.DeleteFunc(d.order, func(t string) bool { return t == title })
	return true
}

// Len returns the number of notes.
func (d *Directory) Len() int { return len(d.order) }

// All returns the notes in insertion order.
func (d *Directory) All() []*Note {
	out := make([]*Note, 0, len(d.order))
	for _, title := range d.order {
		out = append(out, d.notes[title])
	}
	return out
}

// Search returns notes whose title or description contains term, ignoring
// case. It applies no minimum length; callers decide how short a term may be.
func (d *Directory) Search(term string) []*Note {
	fold := cases.Fold()
	needle := fold.String(term)
	var out []*Note
	for _, n := range d.All() {
		if strings.Contains(fold.String(n.title), needle) || strings.Contains(fold.String(n.description), needle) {
			out = append(out, n)
		}
	}
	return out
}
