// Package config resolves where dash keeps its data and how it is configured.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the dash data directory.
//
// Resolution:
//   - $DASH_HOME if set (explicit override)
//   - $XDG_DATA_HOME/dash if set
//   - %AppData%/dash on Windows
//   - ~/.dash on macOS and Linux
func Dir() string {
	if dir := os.Getenv("DASH_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "dash")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "dash")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dash")
}
