// Package field parses raw user input into validated contact field values.
//
// Each value type can only be produced by its Parse function, so a Phone,
// Email or Birthday held anywhere in the program is known to be well-formed.
package field

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which field failed validation.
type Kind string

const (
	KindPhone        Kind = "phone"
	KindEmail        Kind = "email"
	KindBirthday     Kind = "birthday"
	KindDays         Kind = "days"
	KindNegativeDays Kind = "negative-days"
)

// ValidationError reports a raw value rejected by a validator.
type ValidationError struct {
	Kind  Kind
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field: invalid %s %q", e.Kind, e.Value)
}

// Message returns the user-facing explanation for the rejected value.
func (e *ValidationError) Message() string {
	switch e.Kind {
	case KindPhone:
		return "Phone number must be 10 digits long"
	case KindEmail:
		return "Email is not valid"
	case KindBirthday:
		return "Birthday must be in the format DD.MM.YYYY"
	case KindDays:
		return "Invalid number of days."
	case KindNegativeDays:
		return "Please provide a positive number of days."
	default:
		return "Give me correct data please"
	}
}

// PhoneLength is the number of digits a phone number must have after cleaning.
const PhoneLength = 10

// Phone is a cleaned phone number made of exactly PhoneLength digits.
type Phone string

// ParsePhone strips every non-digit from raw and accepts the result only if
// exactly PhoneLength digits remain.
func ParsePhone(raw string) (Phone, error) {
	digits := Digits(raw)
	if len(digits) != PhoneLength {
		return "", &ValidationError{Kind: KindPhone, Value: raw}
	}
	return Phone(digits), nil
}

func (p Phone) String() string { return string(p) }

// Digits returns the ASCII digits of s in order, dropping everything else.
func Digits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

var emailPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9_.]{1,}@[a-zA-Z]+\.[a-zA-Z]{2,}`)

// Email is an address that contains a plausible mailbox. The original text is
// kept as entered.
type Email string

// ParseEmail accepts raw if any part of it looks like an email address.
func ParseEmail(raw string) (Email, error) {
	if !emailPattern.MatchString(raw) {
		return "", &ValidationError{Kind: KindEmail, Value: raw}
	}
	return Email(raw), nil
}

func (e Email) String() string { return string(e) }

// BirthdayLayout is the only accepted birthday format (DD.MM.YYYY).
const BirthdayLayout = "02.01.2006"

// Birthday is a calendar date without a time component.
type Birthday struct {
	t time.Time
}

// ParseBirthday parses raw strictly as DD.MM.YYYY. Single-digit days or
// months, impossible dates and trailing text are all rejected.
func ParseBirthday(raw string) (Birthday, error) {
	t, err := time.Parse(BirthdayLayout, raw)
	if err != nil {
		return Birthday{}, &ValidationError{Kind: KindBirthday, Value: raw}
	}
	return Birthday{t: t}, nil
}

func (b Birthday) Month() time.Month { return b.t.Month() }
func (b Birthday) Day() int          { return b.t.Day() }

// String renders the date as DD.MM.YYYY.
func (b Birthday) String() string {
	return b.t.Format(BirthdayLayout)
}

// ParseDays parses the look-ahead window of a birthday query. The window must
// be a non-negative integer.
func ParseDays(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Kind: KindDays, Value: raw}
	}
	if n < 0 {
		return 0, &ValidationError{Kind: KindNegativeDays, Value: raw}
	}
	return n, nil
}
