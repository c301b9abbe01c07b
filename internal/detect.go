package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "complaint-desk"

// DataPaths holds the detected locations of the console's local files
type DataPaths struct {
	BaseDir    string // per-user data directory
	ConfigFile string // config.yaml inside BaseDir
	StoreFile  string // credential database inside BaseDir
}

// DetectDataPaths detects the data directory based on the operating system.
// COMPLAINT_DESK_HOME overrides the detected directory.
func DetectDataPaths() (DataPaths, error) {
	if dir := os.Getenv("COMPLAINT_DESK_HOME"); dir != "" {
		return dataPathsAt(dir), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return DataPaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var base string
	switch runtime.GOOS {
	case "darwin":
		base = filepath.Join(home, "Library/Application Support", appName)
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, appName)
		} else {
			base = filepath.Join(home, ".config", appName)
		}
	default:
		return DataPaths{}, fmt.Errorf("unsupported OS: %s (only macOS and Linux are supported)", runtime.GOOS)
	}

	return dataPathsAt(base), nil
}

func dataPathsAt(base string) DataPaths {
	return DataPaths{
		BaseDir:    base,
		ConfigFile: filepath.Join(base, "config.yaml"),
		StoreFile:  filepath.Join(base, "credentials.db"),
	}
}

// ConfigExists checks if the config file has been written
func (p DataPaths) ConfigExists() bool {
	_, err := os.Stat(p.ConfigFile)
	return err == nil
}

// StoreExists checks if the credential database exists
func (p DataPaths) StoreExists() bool {
	_, err := os.Stat(p.StoreFile)
	return err == nil
}
