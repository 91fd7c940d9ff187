package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/smileynet/assistant"
	"github.com/smileynet/assistant/internal/command"
	"github.com/smileynet/assistant/internal/config"
	"github.com/smileynet/assistant/internal/logging"
	"github.com/smileynet/assistant/internal/store"
	"github.com/smileynet/assistant/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errSaveFailed marks errors from persisting the address book.
var errSaveFailed = errors.New("saving address book failed")

// CLI is the top-level command structure for assistant.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Repl    ReplCmd          `cmd:"" default:"withargs" help:"Start the interactive assistant (default)."`
	Exec    ExecCmd          `cmd:"" help:"Run a single assistant command and exit."`
	Init    InitCmd          `cmd:"" help:"Write a commented default config file."`
}

// ReplCmd runs the interactive session.
type ReplCmd struct {
	Data  string `help:"Path to the address book document (overrides config)." type:"path"`
	Plain bool   `help:"Force the plain line loop even if stdout is a TTY." default:"false"`
}

// ExecCmd runs one command line against the stored address book.
type ExecCmd struct {
	Data string   `help:"Path to the address book document (overrides config)." type:"path"`
	Line []string `arg:"" passthrough:"" help:"Command followed by its arguments, e.g. add John 1234567890."`
}

// Run executes the repl command.
func (r *ReplCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return r.run(ctx, os.Stdin, os.Stdout)
}

// run builds the session and drives it through the chosen front-end,
// enabling testable wiring.
func (r *ReplCmd) run(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(r.Data)
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	if r.Plain {
		cfg.Display.Plain = true
	}

	session, logger, closeLog, err := openSession(cfg)
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	defer func() { _ = closeLog() }()

	repl := tui.NewREPL(session, tui.REPLOptions{
		In:         in,
		Out:        out,
		ForcePlain: cfg.Display.Plain,
		Prompt:     cfg.Display.Prompt,
		Commands:   command.Names(),
	})

	logger.Info("session started", zap.String("version", version), zap.String("data", cfg.Storage.Path))
	if err := repl.Run(ctx); err != nil {
		return fmt.Errorf("repl: %w: %w", errSaveFailed, err)
	}
	logger.Info("session ended")
	return nil
}

// Run executes the exec command.
func (e *ExecCmd) Run() error {
	return e.run(os.Stdout)
}

// run executes the line and saves when it changed anything, enabling
// testable wiring.
func (e *ExecCmd) run(w io.Writer) error {
	cfg, err := loadConfig(e.Data)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	session, _, closeLog, err := openSession(cfg)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	defer func() { _ = closeLog() }()

	res := session.Execute(strings.Join(e.Line, " "))
	if res.Output != "" {
		_, _ = fmt.Fprintln(w, res.Output)
	}
	if res.Err != nil {
		return fmt.Errorf("exec: %w: %w", errSaveFailed, res.Err)
	}
	if session.Dirty() {
		if err := session.Save(); err != nil {
			return fmt.Errorf("exec: %w: %w", errSaveFailed, err)
		}
	}
	return nil
}

// InitCmd writes the default configuration template.
type InitCmd struct {
	Path  string `help:"Destination (default: $HOME/.config/assistant/config.yaml)." type:"path"`
	Force bool   `help:"Overwrite an existing file." default:"false"`
}

// Run executes the init command.
func (c *InitCmd) Run() error {
	return c.run(os.Stdout)
}

// run writes the template, refusing to replace an existing file unless
// forced, enabling testable wiring.
func (c *InitCmd) run(w io.Writer) error {
	path := c.Path
	if path == "" {
		path = os.ExpandEnv(userConfigPath)
	}

	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("init: %s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("init: creating directory: %w", err)
	}
	if err := os.WriteFile(path, assistant.ConfigTemplate, 0o644); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// Config layers, lowest priority first.
const (
	userConfigPath    = "$HOME/.config/assistant/config.yaml"
	projectConfigPath = ".assistant/config.yaml"
)

// loadConfig loads layered config from user and project paths with env
// overrides. A non-empty dataPath replaces the configured storage path.
func loadConfig(dataPath string) (*config.Config, error) {
	cfg, err := config.LoadLayered(os.ExpandEnv(userConfigPath), projectConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if dataPath != "" {
		cfg.Storage.Path = dataPath
	}
	cfg.ExpandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession creates the logger, loads the address book and returns a
// session over it. The returned close function flushes the log.
func openSession(cfg *config.Config) (*command.Session, *zap.Logger, func() error, error) {
	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, nil, err
	}

	fs := store.NewFileStore(cfg.Storage.Path, store.WithLogger(logger))
	contacts, notes := fs.Load()

	session := command.NewSession(contacts, notes, fs,
		command.WithLogger(logger),
		command.WithMinNoteTerm(cfg.Search.MinNoteTerm),
		command.WithAutosave(cfg.Storage.Autosave),
	)
	return session, logger, closeLog, nil
}

const (
	exitSuccess = 0
	exitSave    = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, errSaveFailed) {
		return exitSave
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("assistant"),
		kong.Description("Keep contacts and notes from the command line."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
