package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend kinds understood by the store package.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultFileName is the storage file name used when no path is configured.
func DefaultFileName(backend string) string {
	if backend == BackendSQLite {
		return "tally.db"
	}
	return "tasks.txt"
}

// GetTasksPath resolves the storage path for the given backend.
// Order of precedence:
// 1) CLI override (--file)
// 2) Environment variable: TALLY_TASKS_PATH
// 3) config.yaml: tasks_path
// 4) Default: ~/.config/tally/tasks.txt (tally.db for sqlite)
// The parent directory is created if missing.
func GetTasksPath(backend string) (string, error) {
	path, _, err := ResolveTasksPathDetailed(backend)
	return path, err
}

// ResolveTasksPathDetailed returns the resolved storage path along with the
// source of that decision.
func ResolveTasksPathDetailed(backend string) (path string, source string, err error) {
	if override := getTasksPathOverride(); override != "" {
		resolvedPath, ensureErr := EnsureParentDir(override)
		return resolvedPath, "cli(--file)", ensureErr
	}

	if envPath := os.Getenv("TALLY_TASKS_PATH"); envPath != "" {
		resolvedPath, ensureErr := EnsureParentDir(envPath)
		return resolvedPath, "env(TALLY_TASKS_PATH)", ensureErr
	}

	paths, err := configPaths()
	if err != nil {
		return "", "", fmt.Errorf("failed to determine config directory: %w", err)
	}

	// Same order as LoadSettings, but reports which file supplied the path.
	for _, p := range paths {
		s, loadErr := loadSettingsFile(p)
		if loadErr == nil {
			if s.TasksPath != "" {
				resolvedPath, ensureErr := EnsureParentDir(expandHome(s.TasksPath))
				return resolvedPath, fmt.Sprintf("config(%s)", p), ensureErr
			}
			// File exists but no tasks_path set; first found wins.
			break
		}
		if errors.Is(loadErr, os.ErrNotExist) {
			continue
		}
		return "", "", fmt.Errorf("failed to load config %s: %w", p, loadErr)
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	name := DefaultFileName(backend)
	resolved, err := EnsureParentDir(filepath.Join(configDir, name))
	return resolved, "default(~/.config/tally/" + name + ")", err
}

// EnsureParentDir creates the directory holding path.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}
	return path, nil
}

// ResolveBackend picks the storage backend.
// Order of precedence: flag value, TALLY_BACKEND, config.yaml backend, "file".
func ResolveBackend(flagValue string) (string, error) {
	kind := flagValue
	if kind == "" {
		kind = os.Getenv("TALLY_BACKEND")
	}
	if kind == "" {
		s, err := LoadSettings()
		if err != nil {
			return "", fmt.Errorf("failed to load config: %w", err)
		}
		kind = s.Backend
	}
	if kind == "" {
		kind = BackendFile
	}

	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case BackendFile, BackendSQLite:
		return kind, nil
	default:
		return "", fmt.Errorf("invalid backend %q (want %s or %s)", kind, BackendFile, BackendSQLite)
	}
}

// ResolveStrict reports whether malformed lines should fail a load.
// True when the flag is set, TALLY_STRICT is 1/true, or config.yaml sets strict.
func ResolveStrict(flagValue bool) (bool, error) {
	if flagValue {
		return true, nil
	}
	if v := os.Getenv("TALLY_STRICT"); v == "1" || v == "true" {
		return true, nil
	}
	s, err := LoadSettings()
	if err != nil {
		return false, fmt.Errorf("failed to load config: %w", err)
	}
	return s.Strict, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
