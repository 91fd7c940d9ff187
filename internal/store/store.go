// Package store persists the contact and note directories as one JSON document.
package store

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/smileynet/assistant/internal/contact"
	"github.com/smileynet/assistant/internal/note"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func documentSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// CorruptSuffix is appended to a document that could not be loaded, so a
// later save does not overwrite it.
const CorruptSuffix = ".corrupt"

// document is the on-disk layout. Optional contact fields are pointers so that
// an absent value is written as null and never confused with "".
type document struct {
	Contacts []contactDoc `json:"contacts"`
	Notes    []noteDoc    `json:"notes"`
}

type contactDoc struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday *string  `json:"birthday"`
	Address  *string  `json:"address"`
	Email    *string  `json:"email"`
}

type noteDoc struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// FileStore reads and writes the address book document at a fixed path.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used to report load problems and saves.
func WithLogger(l *zap.Logger) Option {
	return func(s *FileStore) { s.logger = l }
}

// NewFileStore creates a FileStore for the document at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the document location.
func (s *FileStore) Path() string { return s.path }

// Load reads the document into fresh directories. It never fails: a missing
// document yields empty directories, and an unreadable or malformed one is
// moved aside to path+CorruptSuffix before empty directories are returned.
// Individual invalid values are dropped and logged.
func (s *FileStore) Load() (*contact.Directory, *note.Directory) {
	contacts, notes := contact.NewDirectory(), note.NewDirectory()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("no address book yet, starting empty", zap.String("path", s.path))
		} else {
			s.logger.Warn("cannot read address book, starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return contacts, notes
	}

	doc, err := decode(data)
	if err != nil {
		s.quarantine(err)
		return contacts, notes
	}

	for _, cd := range doc.Contacts {
		if r := s.contactFromDoc(cd); r != nil {
			contacts.Add(r)
		}
	}
	for _, nd := range doc.Notes {
		desc := ""
		if nd.Description != nil {
			desc = *nd.Description
		}
		n, err := note.New(nd.Title, desc)
		if err != nil {
			s.logger.Warn("skipping stored note", zap.Error(err))
			continue
		}
		notes.Add(n)
	}

	s.logger.Info("address book loaded",
		zap.String("path", s.path),
		zap.Int("contacts", contacts.Len()),
		zap.Int("notes", notes.Len()))
	return contacts, notes
}

// decode validates data against the document schema and unmarshals it.
// Blank files decode to an empty document.
func decode(data []byte) (document, error) {
	var doc document
	if strings.TrimSpace(string(data)) == "" {
		return doc, nil
	}

	sch, err := documentSchema()
	if err != nil {
		return doc, fmt.Errorf("store: compiling schema: %w", err)
	}
	result, err := sch.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return doc, fmt.Errorf("store: parsing document: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return doc, fmt.Errorf("store: document does not match schema: %s", strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("store: decoding document: %w", err)
	}
	return doc, nil
}

// contactFromDoc rebuilds a record, dropping any value that no longer passes
// validation. It returns nil for a record without a name.
func (s *FileStore) contactFromDoc(cd contactDoc) *contact.Record {
	r, err := contact.New(cd.Name)
	if err != nil {
		s.logger.Warn("skipping stored contact", zap.Error(err))
		return nil
	}
	drop := func(fieldName, value string, err error) {
		s.logger.Warn("dropping invalid stored value",
			zap.String("contact", cd.Name),
			zap.String("field", fieldName),
			zap.String("value", value),
			zap.Error(err))
	}

	for _, p := range cd.Phones {
		if err := r.AddPhone(p); err != nil {
			drop("phone", p, err)
		}
	}
	if cd.Birthday != nil {
		if err := r.AddBirthday(*cd.Birthday); err != nil {
			drop("birthday", *cd.Birthday, err)
		}
	}
	if cd.Address != nil {
		r.SetAddress(*cd.Address)
	}
	if cd.Email != nil {
		if err := r.AddEmail(*cd.Email); err != nil {
			drop("email", *cd.Email, err)
		}
	}
	return r
}

// quarantine moves a document that failed to load out of the way.
func (s *FileStore) quarantine(cause error) {
	dst := s.path + CorruptSuffix
	if err := os.Rename(s.path, dst); err != nil {
		s.logger.Error("cannot move unreadable address book aside",
			zap.String("path", s.path), zap.NamedError("cause", cause), zap.Error(err))
		return
	}
	s.logger.Warn("unreadable address book moved aside, starting empty",
		zap.String("path", s.path), zap.String("moved_to", dst), zap.Error(cause))
}

// Save writes both directories to the document, replacing it atomically.
func (s *FileStore) Save(contacts *contact.Directory, notes *note.Directory) error {
	doc := document{
		Contacts: make([]contactDoc, 0, contacts.Len()),
		Notes:    make([]noteDoc, 0, notes.Len()),
	}
	for _, r := range contacts.All() {
		doc.Contacts = append(doc.Contacts, contactToDoc(r))
	}
	for _, n := range notes.All() {
		desc := n.Description()
		doc.Notes = append(doc.Notes, noteDoc{Title: n.Title(), Description: &desc})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshaling: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: creating directory: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}

	s.logger.Info("address book saved",
		zap.String("path", s.path),
		zap.Int("contacts", len(doc.Contacts)),
		zap.Int("notes", len(doc.Notes)))
	return nil
}

func contactToDoc(r *contact.Record) contactDoc {
	cd := contactDoc{Name: r.Name(), Phones: make([]string, 0)}
	for _, p := range r.Phones() {
		cd.Phones = append(cd.Phones, p.String())
	}
	if b, ok := r.Birthday(); ok {
		v := b.String()
		cd.Birthday = &v
	}
	if a, ok := r.Address(); ok {
		cd.Address = &a
	}
	if e, ok := r.Email(); ok {
		v := e.String()
		cd.Email = &v
	}
	return cd
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a half-written document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store: writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: writing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("store: replacing %s: %w", path, err)
	}
	return nil
}
