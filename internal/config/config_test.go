package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.Path != "$HOME/.assistant/book.json" {
		t.Errorf("default storage path = %q, want %q", cfg.Storage.Path, "$HOME/.assistant/book.json")
	}
	if cfg.Storage.Autosave {
		t.Error("default autosave = true, want false")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Search.MinNoteTerm != 3 {
		t.Errorf("default min note term = %d, want 3", cfg.Search.MinNoteTerm)
	}
	if cfg.Display.Prompt != "Enter a command: " {
		t.Errorf("default prompt = %q", cfg.Display.Prompt)
	}
}

func TestLoadLayered_ValidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
storage:
  path: /tmp/book.json
  autosave: true
logging:
  level: debug
display:
  plain: true
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLayered(cfgPath)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	if cfg.Storage.Path != "/tmp/book.json" {
		t.Errorf("storage path = %q, want %q", cfg.Storage.Path, "/tmp/book.json")
	}
	if !cfg.Storage.Autosave {
		t.Error("autosave = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if !cfg.Display.Plain {
		t.Error("display plain = false, want true")
	}
	// Unset fields keep defaults.
	if cfg.Search.MinNoteTerm != 3 {
		t.Errorf("min note term = %d, want default 3", cfg.Search.MinNoteTerm)
	}
}

func TestLoadLayered_MissingFile(t *testing.T) {
	cfg, err := LoadLayered("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("LoadLayered() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("LoadLayered(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadLayered(cfgPath); err == nil {
		t.Fatal("LoadLayered(invalid YAML) should return error")
	}
}

func TestLoadLayered_UnknownField(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
storage:
  pth: /tmp/book.json
`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadLayered(cfgPath); err == nil {
		t.Fatal("LoadLayered() should return error for unknown field 'pth'")
	}
}

func TestLoadLayered_Priority(t *testing.T) {
	// Given a user config setting the data file and a project config setting autosave
	userDir := t.TempDir()
	projectDir := t.TempDir()

	userCfg := filepath.Join(userDir, "config.yaml")
	if err := os.WriteFile(userCfg, []byte(`
storage:
  path: /home/me/book.json
search:
  min_note_term: 5
`), 0o644); err != nil {
		t.Fatal(err)
	}

	projectCfg := filepath.Join(projectDir, "config.yaml")
	if err := os.WriteFile(projectCfg, []byte(`
storage:
  autosave: true
search:
  min_note_term: 2
`), 0o644); err != nil {
		t.Fatal(err)
	}

	// When both layers are loaded
	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}

	// Then each field comes from the last layer that set it
	if cfg.Storage.Path != "/home/me/book.json" {
		t.Errorf("storage path = %q, want %q", cfg.Storage.Path, "/home/me/book.json")
	}
	if !cfg.Storage.Autosave {
		t.Error("autosave = false, want true from project layer")
	}
	if cfg.Search.MinNoteTerm != 2 {
		t.Errorf("min note term = %d, want 2", cfg.Search.MinNoteTerm)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want default %q", cfg.Logging.Level, "info")
	}
}

func TestLoadLayered_InvalidLayer(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(bad, []byte("storage: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLayered("/no/user.yaml", bad); err == nil {
		t.Fatal("LoadLayered() should fail on an unparsable layer")
	}
}

func TestLoadLayered_AllMissing(t *testing.T) {
	cfg, err := LoadLayered("/no/user.yaml", "/no/project.yaml")
	if err != nil {
		t.Fatalf("LoadLayered(all missing) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name: "ASSISTANT_DATA_FILE overrides storage path",
			envs: map[string]string{"ASSISTANT_DATA_FILE": "/data/book.json"},
			check: func(t *testing.T, c Config) {
				if c.Storage.Path != "/data/book.json" {
					t.Errorf("storage path = %q, want %q", c.Storage.Path, "/data/book.json")
				}
			},
		},
		{
			name: "ASSISTANT_AUTOSAVE enables autosave",
			envs: map[string]string{"ASSISTANT_AUTOSAVE": "true"},
			check: func(t *testing.T, c Config) {
				if !c.Storage.Autosave {
					t.Error("autosave = false, want true")
				}
			},
		},
		{
			name: "ASSISTANT_LOG_LEVEL overrides level",
			envs: map[string]string{"ASSISTANT_LOG_LEVEL": "debug"},
			check: func(t *testing.T, c Config) {
				if c.Logging.Level != "debug" {
					t.Errorf("log level = %q, want %q", c.Logging.Level, "debug")
				}
			},
		},
		{
			name: "empty ASSISTANT_LOG_FILE disables logging",
			envs: map[string]string{"ASSISTANT_LOG_FILE": ""},
			check: func(t *testing.T, c Config) {
				if c.Logging.File != "" {
					t.Errorf("log file = %q, want empty", c.Logging.File)
				}
			},
		},
		{
			name:    "invalid ASSISTANT_AUTOSAVE returns error",
			envs:    map[string]string{"ASSISTANT_AUTOSAVE": "sometimes"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			err := cfg.ApplyEnv()

			if tt.wantErr {
				if err == nil {
					t.Fatal("ApplyEnv() should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestExpandPaths(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig()
	cfg.ExpandPaths()
	if cfg.Storage.Path != "/home/tester/.assistant/book.json" {
		t.Errorf("storage path = %q", cfg.Storage.Path)
	}
	if cfg.Logging.File != "/home/tester/.assistant/assistant.log" {
		t.Errorf("log file = %q", cfg.Logging.File)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "empty storage path",
			modify:  func(c *Config) { c.Storage.Path = "" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "zero min note term",
			modify:  func(c *Config) { c.Search.MinNoteTerm = 0 },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadLayered_CommentOnlyFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("# just a comment\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLayered(cfgPath)
	if err != nil {
		t.Fatalf("LoadLayered(comment-only) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("LoadLayered(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLayered(cfgPath)
	if err != nil {
		t.Fatalf("LoadLayered(empty) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("LoadLayered(empty) = %+v, want defaults %+v", *cfg, want)
	}
}
