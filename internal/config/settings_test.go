package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gorewood/dash/internal/output"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	dir := t.TempDir()

	s, err := LoadFrom(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Dir != dir {
		t.Errorf("Dir = %q, want %q", s.Dir, dir)
	}
	if s.Store != StoreFile {
		t.Errorf("Store = %q, want %q", s.Store, StoreFile)
	}
	if s.Color != output.ColorAuto {
		t.Errorf("Color = %q, want %q", s.Color, output.ColorAuto)
	}
	if s.TimeFormat != DefaultTimeFormat {
		t.Errorf("TimeFormat = %q, want %q", s.TimeFormat, DefaultTimeFormat)
	}
}

func TestLoadFrom_Precedence(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envFile   string
		environ   map[string]string
		wantStore string
		wantColor string
	}{
		{
			name:      "config file overrides defaults",
			yaml:      "store: sqlite\ncolor: never\n",
			wantStore: StoreSQLite,
			wantColor: output.ColorNever,
		},
		{
			name:      "env file overrides config file",
			yaml:      "store: sqlite\n",
			envFile:   "DASH_STORE=file\n",
			wantStore: StoreFile,
			wantColor: output.ColorAuto,
		},
		{
			name:      "environment overrides env file",
			envFile:   "DASH_STORE=file\nDASH_COLOR=never\n",
			environ:   map[string]string{"DASH_STORE": "sqlite"},
			wantStore: StoreSQLite,
			wantColor: output.ColorNever,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.yaml != "" {
				writeFile(t, dir, SettingsFileName, tt.yaml)
			}
			if tt.envFile != "" {
				writeFile(t, dir, EnvFileName, tt.envFile)
			}

			s, err := LoadFrom(dir, tt.environ)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Store != tt.wantStore {
				t.Errorf("Store = %q, want %q", s.Store, tt.wantStore)
			}
			if s.Color != tt.wantColor {
				t.Errorf("Color = %q, want %q", s.Color, tt.wantColor)
			}
		})
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		environ map[string]string
	}{
		{name: "unknown store", environ: map[string]string{"DASH_STORE": "postgres"}},
		{name: "unknown color", environ: map[string]string{"DASH_COLOR": "rainbow"}},
		{name: "malformed yaml", yaml: "store: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.yaml != "" {
				writeFile(t, dir, SettingsFileName, tt.yaml)
			}
			_, err := LoadFrom(dir, tt.environ)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := output.GetExitCode(err); code != output.ExitUserError {
				t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
			}
		})
	}
}

func TestLoad_UsesDashHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DASH_HOME", dir)
	t.Setenv("DASH_STORE", "sqlite")

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Dir != dir {
		t.Errorf("Dir = %q, want %q", s.Dir, dir)
	}
	if s.Store != StoreSQLite {
		t.Errorf("Store = %q, want %q", s.Store, StoreSQLite)
	}
}
