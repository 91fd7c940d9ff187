// Package tui provides the interactive front-ends: a plain line loop and a
// Bubble Tea terminal UI.
package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/assistant/internal/command"
)

// Welcome is printed when a front-end starts.
const Welcome = "Welcome to the assistant bot!"

// DefaultPrompt is shown before each input line.
const DefaultPrompt = "Enter a command: "

// Executor runs one input line.
// Defined here (the consumer): command.Session satisfies it.
type Executor interface {
	Execute(line string) command.Result
}

// REPL reads lines, executes them and shows the results until the user
// exits or input ends.
type REPL interface {
	// Run blocks until the session ends. It returns the error from the final
	// save, if any.
	Run(ctx context.Context) error
}

// REPLOptions configures front-end creation.
type REPLOptions struct {
	In         io.Reader // Input source (default: os.Stdin).
	Out        io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force the line loop even if TTY.
	Prompt     string    // Input prompt (default: DefaultPrompt).
	Commands   []string  // Tab completions offered by the TUI.
}

// NewREPL returns a TUI front-end when the output is a TTY, or a plain line
// loop otherwise. ForcePlain overrides TTY detection.
func NewREPL(exec Executor, opts REPLOptions) REPL {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}

	if opts.ForcePlain || !isTTY(opts.Out) {
		return &PlainREPL{exec: exec, in: opts.In, out: opts.Out, prompt: opts.Prompt}
	}

	return &TUIREPL{exec: exec, in: opts.In, out: opts.Out, prompt: opts.Prompt, commands: opts.Commands}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainREPL prompts, reads a line and prints the result, one line at a time.
type PlainREPL struct {
	exec   Executor
	in     io.Reader
	out    io.Writer
	prompt string
}

// Run loops until exit/close, end of input or cancellation of ctx. The last
// two are treated as exit so data is still saved.
func (r *PlainREPL) Run(ctx context.Context) error {
	_, _ = fmt.Fprintf(r.out, "%s\n\n", Welcome)

	lines := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		// ReadString has no line length limit, unlike bufio.Scanner.
		reader := bufio.NewReader(r.in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- strings.TrimRight(line, "\r\n"):
				case <-stop:
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		_, _ = fmt.Fprint(r.out, r.prompt)
		line, ok := nextLine(ctx, lines)
		if !ok {
			// Keep the goodbye off the prompt line.
			_, _ = fmt.Fprintln(r.out)
			line = "exit"
		}

		res := r.exec.Execute(line)
		r.render(res)
		if res.Exit {
			return res.Err
		}
	}
}

// nextLine waits for the next input line. ok is false at end of input or
// once ctx is done.
func nextLine(ctx context.Context, lines <-chan string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-lines:
		return line, ok
	}
}

func (r *PlainREPL) render(res command.Result) {
	if res.Output != "" {
		_, _ = fmt.Fprintf(r.out, "%s\n\n", res.Output)
	}
	if res.Err != nil && !res.Exit {
		_, _ = fmt.Fprintf(r.out, "warning: %s\n\n", res.Err)
	}
}

// TUIREPL runs the session inside a Bubble Tea program.
// Falls back to PlainREPL if the TUI program fails to start.
type TUIREPL struct {
	exec     Executor
	in       io.Reader
	out      io.Writer
	prompt   string
	commands []string
}

// Run starts the Bubble Tea program and blocks until the model quits.
func (r *TUIREPL) Run(ctx context.Context) error {
	model := NewModel(r.exec, WithPrompt(r.prompt), WithCompletions(r.commands))
	p := tea.NewProgram(model,
		tea.WithInput(r.in),
		tea.WithOutput(r.out),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok && m.done {
		return m.err
	}
	if err != nil && ctx.Err() == nil {
		// The program never got going; continue in plain text.
		plain := &PlainREPL{exec: r.exec, in: r.in, out: r.out, prompt: r.prompt}
		return plain.Run(ctx)
	}
	// Quit without going through exit, so save here.
	return r.exec.Execute("exit").Err
}
