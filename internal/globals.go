package internal

import (
	"os"
	"path/filepath"
)

var (
	DefaultAppName          = "toytxs"
	DefaultConfigFolderName = DefaultAppName
	DefaultConfigPath       = filepath.Join(os.Getenv("HOME"), ".config", DefaultConfigFolderName)
	DefaultGlobalConfigFile = filepath.Join(DefaultConfigPath, "config.yaml")
)
