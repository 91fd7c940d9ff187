package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/smileynet/assistant/internal/contact"
	"github.com/smileynet/assistant/internal/field"
	"github.com/smileynet/assistant/internal/note"
)

const variadic = -1

// commandDef describes one command token and its argument shape.
type commandDef struct {
	name    string
	aliases []string
	usage   string // Argument synopsis shown by help.
	summary string
	minArgs int
	maxArgs int // variadic allows any number of trailing arguments.
	exits   bool
	run     func(s *Session, args []string) (string, error)
}

// commandTable lists every command in the order help prints them.
func commandTable() []commandDef {
	return []commandDef{
		{name: "hello", summary: "Greet the assistant", maxArgs: variadic, run: (*Session).hello},
		{name: "add", aliases: []string{"add-contact"}, usage: "<name> <phone>", summary: "Create a contact with one phone", minArgs: 2, maxArgs: 2, run: (*Session).addContact},
		{name: "change-phone", usage: "<name> [old-phone] <new-phone>", summary: "Replace a phone (the first one when old-phone is omitted)", minArgs: 2, maxArgs: 3, run: (*Session).changePhone},
		{name: "show-phone", usage: "<name>", summary: "Show a contact's phones", minArgs: 1, maxArgs: 1, run: (*Session).showPhone},
		{name: "all-contacts", summary: "Show every contact", maxArgs: variadic, run: (*Session).allContacts},
		{name: "add-birthday", usage: "<name> <DD.MM.YYYY>", summary: "Set a contact's birthday", minArgs: 2, maxArgs: 2, run: (*Session).addBirthday},
		{name: "show-birthday", usage: "<name>", summary: "Show a contact's birthday", minArgs: 1, maxArgs: 1, run: (*Session).showBirthday},
		{name: "change-birthday", usage: "<name> <DD.MM.YYYY>", summary: "Replace a contact's birthday", minArgs: 2, maxArgs: 2, run: (*Session).changeBirthday},
		{name: "birthdays-in-x-days", usage: "<days>", summary: "List birthdays coming up within the given number of days", minArgs: 1, maxArgs: 1, run: (*Session).birthdaysInDays},
		{name: "search-contacts", usage: "<term>", summary: "Find contacts by any field", minArgs: 1, maxArgs: 1, run: (*Session).searchContacts},
		{name: "delete-contact", usage: "<name>", summary: "Remove a contact", minArgs: 1, maxArgs: 1, run: (*Session).deleteContact},
		{name: "add-address", usage: "<name> <address...>", summary: "Set a contact's address", minArgs: 2, maxArgs: variadic, run: (*Session).addAddress},
		{name: "show-address", usage: "<name>", summary: "Show a contact's address", minArgs: 1, maxArgs: 1, run: (*Session).showAddress},
		{name: "change-address", usage: "<name> <address...>", summary: "Replace a contact's address", minArgs: 2, maxArgs: variadic, run: (*Session).changeAddress},
		{name: "add-email", usage: "<name> <email>", summary: "Set a contact's email", minArgs: 2, maxArgs: 2, run: (*Session).addEmail},
		{name: "show-email", usage: "<name>", summary: "Show a contact's email", minArgs: 1, maxArgs: 1, run: (*Session).showEmail},
		{name: "change-email", usage: "<name> <email>", summary: "Replace an existing email", minArgs: 2, maxArgs: 2, run: (*Session).changeEmail},
		{name: "add-note", usage: "<title> [description...]", summary: "Create or replace a note", minArgs: 1, maxArgs: variadic, run: (*Session).addNote},
		{name: "change-note", usage: "<title> [description...]", summary: "Replace a note's description", minArgs: 1, maxArgs: variadic, run: (*Session).changeNote},
		{name: "show-note", usage: "<title>", summary: "Show a note", minArgs: 1, maxArgs: 1, run: (*Session).showNote},
		{name: "all-notes", summary: "Show every note", maxArgs: variadic, run: (*Session).allNotes},
		{name: "delete-note", usage: "<title>", summary: "Remove a note", minArgs: 1, maxArgs: 1, run: (*Session).deleteNote},
		{name: "search-notes", usage: "<term>", summary: "Find notes by title or description", minArgs: 1, maxArgs: 1, run: (*Session).searchNotes},
		{name: "help", summary: "Show this list", maxArgs: variadic, run: (*Session).help},
		{name: "exit", aliases: []string{"close"}, summary: "Save and quit", maxArgs: variadic, exits: true},
	}
}

// lookup finds a command by name or alias.
func lookup(name string) (commandDef, bool) {
	table := commandTable()
	i := slices.IndexFunc(table, func(c commandDef) bool {
		return c.name == name || slices.Contains(c.aliases, name)
	})
	if i < 0 {
		return commandDef{}, false
	}
	return table[i], true
}

// Names returns every accepted command token, aliases included.
func Names() []string {
	var names []string
	for _, c := range commandTable() {
		names = append(names, c.name)
		names = append(names, c.aliases...)
	}
	return names
}

func (s *Session) hello([]string) (string, error) {
	return "How can I help you?", nil
}

func (s *Session) help([]string) (string, error) {
	var b strings.Builder
	b.WriteString("Commands:")
	for _, c := range commandTable() {
		tokens := strings.Join(append([]string{c.name}, c.aliases...), " | ")
		synopsis := strings.TrimSpace(tokens + " " + c.usage)
		_, _ = fmt.Fprintf(&b, "\n  %-44s %s", synopsis, c.summary)
	}
	return b.String(), nil
}

func (s *Session) addContact(args []string) (string, error) {
	r, err := contact.New(args[0])
	if err != nil {
		return "", err
	}
	if err := r.AddPhone(args[1]); err != nil {
		return "", err
	}
	s.contacts.Add(r)
	s.touch()
	return "Contact added.", nil
}

// changePhone accepts "name new" (replacing the first phone) or
// "name old new".
func (s *Session) changePhone(args []string) (string, error) {
	r, ok := s.contacts.Find(args[0])
	if !ok {
		return "Contact not found.", nil
	}

	var old, replacement string
	if len(args) == 3 {
		old, replacement = args[1], args[2]
	} else {
		replacement = args[1]
		if phones := r.Phones(); len(phones) > 0 {
			old = phones[0].String()
		}
	}

	found, err := r.EditPhone(old, replacement)
	if err != nil {
		return "", err
	}
	if !found {
		return "Phone not found.", nil
	}
	s.touch()
	return "Contact updated.", nil
}

func (s *Session) showPhone(args []string) (string, error) {
	r, ok := s.contacts.Find(args[0])
	if !ok {
		return "Not found.", nil
	}
	phones := r.Phones()
	if len(phones) == 0 {
		return "No phones stored.", nil
	}
	parts := make([]string, len(phones))
	for i, p := range phones {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", "), nil
}

func (s *Session) allContacts([]string) (string, error) {
	if s.contacts.Len() == 0 {
		return "No contacts stored.", nil
	}
	return renderRecords(s.contacts.All()), nil
}

func (s *Session) addBirthday(args []string) (string, error) {
	r, ok := s.contacts.Find(args[0])
	if !ok {
		return "Contact not found.", nil
	}
	if err := r.AddBirthday(args[1]); err != nil {
		return "", err
	}
	s.touch()
	return "Birthday added.", nil
}

func (s *Session) showBirthday(args []string) (string, error) {
	if r, ok := s.contacts.Find(args[0]); ok {
		if b, ok := r.Birthday(); ok {
			return b.String(), nil
		}
	}
	return "No birthday found for this contact.", nil
}

func (s *Session) changeBirthday(args []string) (string, error) {
	r, ok := s.contacts.Find(args[0])
	if !ok {
		return "Contact not found.", nil
	}
	if err := r.EditBirthday(args[1]); err != nil {
		return "", err
	}
	s.touch()
	return "Birthday changed.", nil
}

// birthdaysInDays prints one line per weekday group, for example
// "Monday: Ann (24.10.2026), Bob (25.10.2026)".
func (s *Session) birthdaysInDays(args []string) (string, error) {
	days, err := field.ParseDays(args[0])
	if err != nil {
		return "", err
	}
	groups := s.contacts.BirthdaysWithin(s.now(), days)
	if len(groups) == 0 {
		return fmt.Sprintf("No birthdays in %d days.", days), nil
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		entries := make([]string, len(g.Entries))
		for i, e := range g.Entries {
			entries[i] = fmt.Sprintf("%s (%s)", e.Name, e.Date.Format(field.BirthdayLayout))
		}
		lines = append(lines, g.Weekday.String()+": "+strings.Join(entries, ", "))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Session) searchContacts(args []string) (string, error) {
	matches := s.contacts.Search(args[0])
	if len(matches) == 0 {
		return "No matching contacts found.", nil
	}
	return renderRecords(matches), nil
}

func (s *Session) deleteContact(args []string) (string, error) {
	if !s.contacts.Delete(args[0]) {
		return "Contact not found.", nil
	}
	s.touch()
	return "Contact deleted.", nil
}

func (s *Session) addAddress(args []string) (string, error) {
	return s.setAddress(args, "Address added.")
}

func (s *Session) changeAddress(args []string) (string, error) {
	return s.setAddress(args, "Address changed.")
}

func (s *Session) setAddress(args []string, done string) (string, error) {
	r, ok := s.contacts.Find(args[0])
	if !ok {
		return "Contact not found.", nil
	}
	r.SetAddress(strings.Join(args[1:], " "))
	s.touch()
	return done, nil
}

func (s *Session) showAddress(args []string) (string, error) {
	if r, ok := s.contacts.Find(args[0]); ok {
		if a, ok := r.Address(); ok {
			return a, nil
		}
	}
	return "No contact or address found.", nil
}

func (s *Session) addEmail(args []string) (string, error) {
	r, ok := s.contacts.Find(args[0])
	if !ok {
		return "Contact not found.", nil
	}
	if err := r.AddEmail(args[1]); err != nil {
		return "", err
	}
	s.touch()
	return "Email added.", nil
}

func (s *Session) showEmail(args []string) (string, error) {
	if r, ok := s.contacts.Find(args[0]); ok {
		if e, ok := r.Email(); ok {
			return e.String(), nil
		}
	}
	return "No contact or email found.", nil
}

func (s *Session) changeEmail(args []string) (string, error) {
	r, ok := s.contacts.Find(args[0])
	if !ok {
		return "Contact not found.", nil
	}
	if err := r.EditEmail(args[1]); err != nil {
		if errors.Is(err, contact.ErrEmailNotFound) {
			return "Email not found.", nil
		}
		return "", err
	}
	s.touch()
	return "Email changed.", nil
}

func (s *Session) addNote(args []string) (string, error) {
	n, err := note.New(args[0], strings.Join(args[1:], " "))
	if err != nil {
		return "", err
	}
	s.notes.Add(n)
	s.touch()
	return "Note added.", nil
}

func (s *Session) changeNote(args []string) (string, error) {
	n, ok := s.notes.Find(args[0])
	if !ok {
		return "Note not found.", nil
	}
	n.EditDescription(strings.Join(args[1:], " "))
	s.touch()
	return "Note changed.", nil
}

func (s *Session) showNote(args []string) (string, error) {
	n, ok := s.notes.Find(args[0])
	if !ok {
		return "No note found.", nil
	}
	return n.Render(), nil
}

func (s *Session) allNotes([]string) (string, error) {
	if s.notes.Len() == 0 {
		return "No notes stored.", nil
	}
	return renderNotes(s.notes.All()), nil
}

func (s *Session) deleteNote(args []string) (string, error) {
	if !s.notes.Delete(args[0]) {
		return "Not found.", nil
	}
	s.touch()
	return "Note deleted.", nil
}

func (s *Session) searchNotes(args []string) (string, error) {
	term := args[0]
	if utf8.RuneCountInString(term) < s.minNoteTerm {
		return fmt.Sprintf("Search term needs at least %d characters.", s.minNoteTerm), nil
	}
	matches := s.notes.Search(term)
	if len(matches) == 0 {
		return "No matching notes found.", nil
	}
	return renderNotes(matches), nil
}

func renderRecords(records []*contact.Record) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.Render()
	}
	return strings.Join(parts, "\n\n")
}

func renderNotes(notes []*note.Note) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = n.Render()
	}
	return strings.Join(parts, "\n\n")
}
