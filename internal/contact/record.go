// Package contact holds contact records and the directory that owns them.
package contact

import (
	"errors"
	"strings"

	"github.com/smileynet/assistant/internal/field"
)

// ErrEmptyName indicates a record was created without a name.
var ErrEmptyName = errors.New("contact: name cannot be empty")

// ErrEmailNotFound indicates an email edit on a record that has no email yet.
var ErrEmailNotFound = errors.New("contact: email not found")

// Record is one person's contact data. Typed fields only ever hold values
// produced by the field package validators.
type Record struct {
	name     string
	phones   []field.Phone
	address  *string
	email    *field.Email
	birthday *field.Birthday
}

// New creates a record with the given name and no other fields.
func New(name string) (*Record, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Record{name: name}, nil
}

// Name returns the record's key.
func (r *Record) Name() string { return r.name }

// Phones returns a copy of the record's phone numbers in insertion order.
func (r *Record) Phones() []field.Phone {
	out := make([]field.Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// Address returns the address and whether one is set.
func (r *Record) Address() (string, bool) {
	if r.address == nil {
		return "", false
	}
	return *r.address, true
}

// Email returns the email and whether one is set.
func (r *Record) Email() (field.Email, bool) {
	if r.email == nil {
		return "", false
	}
	return *r.email, true
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (field.Birthday, bool) {
	if r.birthday == nil {
		return field.Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates raw and appends it. Duplicate numbers are allowed.
func (r *Record) AddPhone(raw string) error {
	p, err := field.ParsePhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// EditPhone replaces the first phone equal to old with the validated value
// of replacement. old is compared in cleaned digit form. The validation error
// for replacement is returned before any lookup; a missing old number reports
// false.
func (r *Record) EditPhone(old, replacement string) (bool, error) {
	p, err := field.ParsePhone(replacement)
	if err != nil {
		return false, err
	}
	want := field.Phone(field.Digits(old))
	for i := range r.phones {
		if r.phones[i] == want {
			r.phones[i] = p
			return true, nil
		}
	}
	return false, nil
}

// SetAddress stores a free-form address, replacing any previous one.
func (r *Record) SetAddress(raw string) {
	r.address = &raw
}

// AddEmail validates raw and sets it as the record's email.
func (r *Record) AddEmail(raw string) error {
	e, err := field.ParseEmail(raw)
	if err != nil {
		return err
	}
	r.email = &e
	return nil
}

// EditEmail replaces an existing email. It returns ErrEmailNotFound when the
// record has none, without validating raw.
func (r *Record) EditEmail(raw string) error {
	if r.email == nil {
		return ErrEmailNotFound
	}
	return r.AddEmail(raw)
}

// AddBirthday validates raw and sets it as the record's birthday.
func (r *Record) AddBirthday(raw string) error {
	b, err := field.ParseBirthday(raw)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// EditBirthday replaces the birthday. Unlike EditEmail it does not require a
// previous value.
func (r *Record) EditBirthday(raw string) error {
	return r.AddBirthday(raw)
}

// Render returns a multi-line summary: name, then phones, address, email and
// birthday, each only when set.
func (r *Record) Render() string {
	lines := []string{"Contact name: " + r.name}
	if len(r.phones) > 0 {
		lines = append(lines, "Phones: "+joinPhones(r.phones, ", "))
	}
	if r.address != nil {
		lines = append(lines, "Address: "+*r.address)
	}
	if r.email != nil {
		lines = append(lines, "Email: "+r.email.String())
	}
	if r.birthday != nil {
		lines = append(lines, "Birthday: "+r.birthday.String())
	}
	return strings.Join(lines, "\n")
}

func joinPhones(phones []field.Phone, sep string) string {
	parts := make([]string, len(phones))
	for i, p := range phones {
		parts[i] = p.String()
	}
	return strings.Join(parts, sep)
}
