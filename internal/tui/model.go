package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/assistant/internal/command"
)

// exchange is one submitted line and what came back.
type exchange struct {
	input  string
	result command.Result
}

// Model is the Bubble Tea model for the interactive session: a scrollback of
// past exchanges above a single input line.
type Model struct {
	exec    Executor
	input   textinput.Model
	log     []exchange
	history []string
	histPos int    // Index into history while browsing; len(history) otherwise.
	draft   string // Unsubmitted text saved when history browsing starts.
	width   int
	height  int
	done    bool
	err     error // Save error from the exit command.
}

// ModelOption configures optional Model behavior.
type ModelOption func(*Model)

// WithPrompt sets the text shown before the input line.
func WithPrompt(prompt string) ModelOption {
	return func(m *Model) { m.input.Prompt = prompt }
}

// WithCompletions offers names as tab completions for the input line.
func WithCompletions(names []string) ModelOption {
	return func(m *Model) {
		m.input.ShowSuggestions = len(names) > 0
		m.input.SetSuggestions(names)
	}
}

// NewModel creates a Model that sends submitted lines to exec.
func NewModel(exec Executor, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Prompt = DefaultPrompt
	ti.Placeholder = "help"
	ti.Focus()

	m := Model{exec: exec, input: ti}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-4, 1)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m.submit("exit")
		case "enter":
			line := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(line) == "" {
				return m, nil
			}
			m.history = append(m.history, line)
			m.histPos = len(m.history)
			m.draft = ""
			return m.submit(line)
		case "up":
			m.recall(-1)
			return m, nil
		case "down":
			m.recall(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit executes line and records the exchange. An exiting result ends
// the program.
func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	res := m.exec.Execute(line)
	m.log = append(m.log, exchange{input: line, result: res})
	if res.Exit {
		m.done = true
		m.err = res.Err
		return m, tea.Quit
	}
	return m, nil
}

// recall moves through submitted lines. Moving past the newest entry
// restores the draft that was being typed.
func (m *Model) recall(step int) {
	if len(m.history) == 0 {
		return
	}
	if m.histPos == len(m.history) && step < 0 {
		m.draft = m.input.Value()
	}
	pos := min(max(m.histPos+step, 0), len(m.history))
	if pos == m.histPos {
		return
	}
	m.histPos = pos
	if pos == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[pos])
	}
	m.input.CursorEnd()
}

// View renders the header, the scrollback that fits and the input line.
func (m Model) View() string {
	var lines []string
	for _, ex := range m.log {
		lines = append(lines, echoStyle.Render("> "+ex.input))
		if ex.result.Output != "" {
			style := resultStyle
			if ex.result.Failed {
				style = errorStyle
			}
			lines = append(lines, strings.Split(style.Render(ex.result.Output), "\n")...)
		}
		if ex.result.Err != nil {
			lines = append(lines, warnStyle.Render("save failed: "+ex.result.Err.Error()))
		}
	}

	if m.done {
		return strings.Join(lines, "\n") + "\n"
	}

	header := titleStyle.Render(Welcome) + "  " + hintStyle.Render("help lists commands · esc saves and quits")
	input := InputBorder().Render(m.input.View())

	// header + blank line + input box (3 rows) leave the rest for scrollback.
	if m.height > 0 {
		room := max(m.height-5, 0)
		if len(lines) > room {
			lines = lines[len(lines)-room:]
		}
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	if len(lines) > 0 {
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	b.WriteString(input)
	return b.String()
}
