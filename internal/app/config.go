package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/tally/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tally"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# tally configuration
# Run: tally --help

# Optional: where tasks are stored.
# Can also be set via TALLY_TASKS_PATH or --file.
# tasks_path: ~/.config/tally/tasks.txt

# Optional: storage backend, "file" (default) or "sqlite".
# Can also be set via TALLY_BACKEND or --backend.
# backend: file

# Optional: refuse to load a tasks file with malformed lines instead of skipping them.
# Can also be set via TALLY_STRICT=1 or --strict.
# strict: false
`
