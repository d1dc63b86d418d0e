package domain

import (
	"path/filepath"
	"strings"
)

// LogPath returns the path to the log file.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, LogsDirName, "della.log")
}

// LockPath returns the path of the advisory lock guarding a task file.
func LockPath(tasksPath string) string {
	return tasksPath + ".lock"
}

// SnapshotFileName returns the file name used for a task file inside the history repository.
// Format: tasks.<ext>
func SnapshotFileName(tasksPath string) string {
	ext := filepath.Ext(tasksPath)
	if ext == "" {
		ext = ".toml"
	}
	return "tasks" + ext
}

// ExpandHome replaces a leading "~/" with home.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") && home != "" {
		return filepath.Join(home, path[2:])
	}
	return path
}
