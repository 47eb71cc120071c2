package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// UserConfigDir returns the platform config directory for wordfuzz without
// creating it.
func UserConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "wordfuzz")
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "wordfuzz")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "wordfuzz")
	}
	return filepath.Join(homeDir, ".config", "wordfuzz")
}

// DictCandidates lists where a dictionary named path is looked for, in order:
// the path as given, next to the executable, then in the config directory.
// Absolute paths are only ever taken as given.
func DictCandidates(path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}
	candidates := []string{path}
	if execDir, err := GetExecutableDir(); err == nil {
		candidates = append(candidates, filepath.Join(execDir, path))
	}
	candidates = append(candidates, filepath.Join(UserConfigDir(), path))
	return candidates
}

// ResolveDictPath returns the first existing candidate for path. When none
// exists path is returned unchanged so the open error names what the user
// asked for.
func ResolveDictPath(path string) string {
	for _, candidate := range DictCandidates(path) {
		if FileExists(candidate) {
			log.Debugf("Resolved dictionary %s to %s", path, candidate)
			return candidate
		}
		log.Debugf("Dictionary candidate not found: %s", candidate)
	}
	return path
}
