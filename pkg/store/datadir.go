package store

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDirEnv overrides the default data directory.
const DataDirEnv = "QUEST_DIR"

// ResolveDataDir picks the data directory: an explicit flag value wins,
// then $QUEST_DIR, then DefaultDataDir.
func ResolveDataDir(flag string) string {
	if flag != "" {
		return flag
	}
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	return DefaultDataDir()
}

// DefaultDataDir returns the OS-appropriate default data directory.
//
//   - macOS:   ~/Library/Application Support/quest
//   - Linux:   $XDG_DATA_HOME/quest (fallback ~/.local/share/quest)
//   - Windows: %LOCALAPPDATA%\quest (fallback %APPDATA%\quest)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "quest")
	case "windows":
		for _, env := range []string{"LOCALAPPDATA", "APPDATA"} {
			if dir := os.Getenv(env); dir != "" {
				return filepath.Join(dir, "quest")
			}
		}
		return filepath.Join(home, "quest")
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, "quest")
		}
		return filepath.Join(home, ".local", "share", "quest")
	}
}
