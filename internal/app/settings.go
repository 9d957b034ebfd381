package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	TasksPath string `yaml:"tasks_path"`
	Backend   string `yaml:"backend"`
	Strict    bool   `yaml:"strict"`
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// tasksPathOverrideMu and tasksPathOverride implement a mutex-protected process-wide override for CLI --file.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	tasksPathOverrideMu sync.RWMutex
	tasksPathOverride   string
)

// SetTasksPathOverride sets a process-wide storage path override.
// Intended for CLI flag support (--file). An empty path clears it.
func SetTasksPathOverride(path string) {
	tasksPathOverrideMu.Lock()
	tasksPathOverride = path
	tasksPathOverrideMu.Unlock()
}

func getTasksPathOverride() string {
	tasksPathOverrideMu.RLock()
	v := tasksPathOverride
	tasksPathOverrideMu.RUnlock()
	return v
}

// configPaths lists config files in lookup order (first found wins):
// 1) ~/.config/tally/config.yaml
// 2) /etc/tally/config.yaml
// 3) ./config.yaml (lowest priority; allows directory-local overrides)
func configPaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(string(os.PathSeparator), "etc", "tally", "config.yaml"),
		"config.yaml",
	}, nil
}

// LoadSettings loads configuration once using the configPaths lookup order.
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		paths, err := configPaths()
		if err != nil {
			settingsErr = err
			return
		}

		for _, p := range paths {
			s, err := loadSettingsFile(p)
			if err == nil {
				settings = s
				return
			}
			if !errors.Is(err, os.ErrNotExist) {
				settingsErr = err
				return
			}
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
