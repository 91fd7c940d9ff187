// Package command parses input lines and routes them to contact and note
// operations, turning every outcome into the text shown to the user.
package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smileynet/assistant/internal/contact"
	"github.com/smileynet/assistant/internal/field"
	"github.com/smileynet/assistant/internal/note"
)

// Sentinel errors for argument-count problems.
var (
	ErrMissingArguments = errors.New("command: missing arguments")
	ErrTooManyArguments = errors.New("command: too many arguments")
)

// Fixed user-facing texts that are not tied to a single command.
const (
	MsgMissingArguments = "Missing arguments"
	MsgInvalidData      = "Give me correct data please"
	MsgNotRecognized    = "Command not recognized"
	MsgGoodbye          = "Good bye!"
)

// DefaultMinNoteTerm is the shortest note search term accepted by default.
const DefaultMinNoteTerm = 3

// Saver persists both directories.
// Defined here (the consumer): store.FileStore satisfies it.
type Saver interface {
	Save(contacts *contact.Directory, notes *note.Directory) error
}

// Result is the outcome of one input line.
type Result struct {
	Output string // Text to show; empty for blank input.
	Exit   bool   // The line asked the session to end.
	Failed bool   // Output reports rejected input rather than a result.
	Err    error  // Persistence failure, if saving was attempted and failed.
}

// Session owns the in-memory directories for one run and executes lines
// against them. It is not safe for concurrent use.
type Session struct {
	contacts    *contact.Directory
	notes       *note.Directory
	saver       Saver
	logger      *zap.Logger
	now         func() time.Time
	minNoteTerm int
	autosave    bool
	dirty       bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for dispatch and failure events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides the source of "today" for birthday queries.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithMinNoteTerm sets the shortest accepted note search term.
func WithMinNoteTerm(n int) Option {
	return func(s *Session) { s.minNoteTerm = n }
}

// WithAutosave saves after every command that changed data.
func WithAutosave(on bool) Option {
	return func(s *Session) { s.autosave = on }
}

// NewSession creates a Session over the given directories. A nil saver makes
// Save a no-op.
func NewSession(contacts *contact.Directory, notes *note.Directory, saver Saver, opts ...Option) *Session {
	s := &Session{
		contacts:    contacts,
		notes:       notes,
		saver:       saver,
		logger:      zap.NewNop(),
		now:         time.Now,
		minNoteTerm: DefaultMinNoteTerm,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Contacts returns the contact directory the session operates on.
func (s *Session) Contacts() *contact.Directory { return s.contacts }

// Notes returns the note directory the session operates on.
func (s *Session) Notes() *note.Directory { return s.notes }

// Dirty reports whether data changed since the last successful save.
func (s *Session) Dirty() bool { return s.dirty }

// Save persists both directories and clears the dirty flag on success.
func (s *Session) Save() error {
	if s.saver == nil {
		s.dirty = false
		return nil
	}
	if err := s.saver.Save(s.contacts, s.notes); err != nil {
		s.logger.Error("save failed", zap.Error(err))
		return fmt.Errorf("command: saving: %w", err)
	}
	s.dirty = false
	return nil
}

// Execute runs one input line. Blank lines produce an empty Result. exit and
// close save before reporting Exit; a save failure is returned in Err while
// the goodbye text is still produced.
func (s *Session) Execute(line string) Result {
	name, args, ok := Parse(line)
	if !ok {
		return Result{}
	}

	def, ok := lookup(name)
	if !ok {
		s.logger.Info("unrecognized command", zap.String("command", name))
		return Result{Output: MsgNotRecognized, Failed: true}
	}
	s.logger.Debug("dispatching command", zap.String("command", name), zap.Int("args", len(args)))

	if def.exits {
		return Result{Output: MsgGoodbye, Exit: true, Err: s.Save()}
	}

	out, err := s.dispatch(def, args)
	if err != nil {
		s.logger.Info("command failed", zap.String("command", name), zap.Error(err))
		return Result{Output: ErrorMessage(err), Failed: true}
	}

	res := Result{Output: out}
	if s.dirty && s.autosave {
		res.Err = s.Save()
	}
	return res
}

func (s *Session) dispatch(def commandDef, args []string) (string, error) {
	if len(args) < def.minArgs {
		return "", fmt.Errorf("%s needs %d argument(s), got %d: %w", def.name, def.minArgs, len(args), ErrMissingArguments)
	}
	if def.maxArgs >= 0 && len(args) > def.maxArgs {
		return "", fmt.Errorf("%s takes at most %d argument(s), got %d: %w", def.name, def.maxArgs, len(args), ErrTooManyArguments)
	}
	return def.run(s, args)
}

// touch marks the directories as changed.
func (s *Session) touch() { s.dirty = true }

// Parse splits line into a lower-cased command token and its
// whitespace-separated arguments. ok is false for a blank line.
func Parse(line string) (name string, args []string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// ErrorMessage converts an error from a command into the text shown to the
// user. Validation failures keep their specific message; anything
// unrecognized becomes the generic invalid-data text.
func ErrorMessage(err error) string {
	var ve *field.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message()
	case errors.Is(err, ErrMissingArguments):
		return MsgMissingArguments
	case errors.Is(err, contact.ErrEmailNotFound):
		return "Email not found."
	default:
		return MsgInvalidData
	}
}
