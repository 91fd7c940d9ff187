package contact

import (
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/smileynet/assistant/internal/field"
)

// Directory is an ordered collection of records keyed by name. Listing
// follows insertion order; overwriting a name keeps its original position.
type Directory struct {
	records map[string]*Record
	order   []string
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{records: make(map[string]*Record)}
}

// Add stores r under its name, silently replacing any record with that name.
func (d *Directory) Add(r *Record) {
	if _, ok := d.records[r.name]; !ok {
		d.order = append(d.order, r.name)
	}
	d.records[r.name] = r
}

// Find returns the record with exactly the given name.
func (d *Directory) Find(name string) (*Record, bool) {
	r, ok := d.records[name]
	return r, ok
}

// Delete removes the named record and reports whether it existed.
func (d *Directory) Delete(name string) bool {
	if _, ok := d.records[name]; !ok {
		return false
	}
	delete(d.records, name)
	d.order = slices.DeleteFunc(d.order, func(n string) bool { return n == name })
	return true
}

// Len returns the number of records.
func (d *Directory) Len() int { return len(d.order) }

// All returns the records in insertion order.
func (d *Directory) All() []*Record {
	out := make([]*Record, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.records[name])
	}
	return out
}

// Search returns records where term occurs, ignoring case, in the name, any
// phone, the email, the address or the birthday as DD.MM.YYYY. Each record
// appears at most once, in insertion order.
func (d *Directory) Search(term string) []*Record {
	fold := cases.Fold()
	needle := fold.String(term)
	var out []*Record
	for _, r := range d.All() {
		for _, s := range r.searchable() {
			if strings.Contains(fold.String(s), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// searchable lists the record's populated field values as text.
func (r *Record) searchable() []string {
	vals := []string{r.name}
	for _, p := range r.phones {
		vals = append(vals, p.String())
	}
	if r.email != nil {
		vals = append(vals, r.email.String())
	}
	if r.address != nil {
		vals = append(vals, *r.address)
	}
	if r.birthday != nil {
		vals = append(vals, r.birthday.String())
	}
	return vals
}

// Upcoming is one contact's next birthday occurrence.
type Upcoming struct {
	Name string
	Date time.Time
}

// BirthdayGroup collects upcoming birthdays reported on the same weekday.
type BirthdayGroup struct {
	Weekday time.Weekday
	Entries []Upcoming
}

// maxBirthdayWindow covers every next occurrence, leap years included.
const maxBirthdayWindow = 366

// BirthdaysWithin returns the contacts whose next birthday falls within
// [today, today+days]. Occurrences on Saturday or Sunday are reported in the
// Monday group while keeping their real date. Groups run Monday to Friday and
// entries are ordered by date. A negative window yields nothing.
func (d *Directory) BirthdaysWithin(today time.Time, days int) []BirthdayGroup {
	if days < 0 {
		return nil
	}
	// Every next occurrence lies within a year; larger windows would
	// overflow AddDate.
	days = min(days, maxBirthdayWindow)
	start := dateOf(today)
	end := start.AddDate(0, 0, days)

	byDay := make(map[time.Weekday][]Upcoming)
	for _, r := range d.All() {
		if r.birthday == nil {
			continue
		}
		next := occurrence(*r.birthday, start.Year())
		if next.Before(start) {
			next = occurrence(*r.birthday, start.Year()+1)
		}
		if next.After(end) {
			continue
		}
		wd := reportDay(next.Weekday())
		byDay[wd] = append(byDay[wd], Upcoming{Name: r.name, Date: next})
	}

	var groups []BirthdayGroup
	for wd := time.Monday; wd <= time.Friday; wd++ {
		entries, ok := byDay[wd]
		if !ok {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
		groups = append(groups, BirthdayGroup{Weekday: wd, Entries: entries})
	}
	return groups
}

// dateOf truncates t to its calendar date, expressed at midnight UTC so it
// compares cleanly with birthday dates.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// occurrence returns the birthday's month and day in the given year. A 29
// February birthday falls on 28 February in non-leap years.
func occurrence(b field.Birthday, year int) time.Time {
	m, d := b.Month(), b.Day()
	if m == time.February && d == 29 && !isLeap(year) {
		d = 28
	}
	return time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// reportDay moves weekend days to the following Monday.
func reportDay(wd time.Weekday) time.Weekday {
	if wd == time.Saturday || wd == time.Sunday {
		return time.Monday
	}
	return wd
}
