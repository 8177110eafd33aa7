// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

// Package xdg resolves ParkSpot paths under the XDG base directories.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "parkspot"

// ConfigFileName is the name of the config file inside ConfigDir.
const ConfigFileName = "config.yaml"

// ConfigDir returns $XDG_CONFIG_HOME/parkspot, or ~/.config/parkspot.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", oops.Code("XDG_NO_HOME").Wrap(err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName), nil
}

// DefaultConfigFile returns the config file path if it exists. found is
// false when there is no file there.
func DefaultConfigFile() (path string, found bool, err error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", false, err
	}
	path = filepath.Join(dir, ConfigFileName)

	info, err := os.Stat(path)
	switch {
	case err == nil:
		return path, !info.IsDir(), nil
	case os.IsNotExist(err):
		return path, false, nil
	default:
		return path, false, oops.Code("XDG_STAT_FAILED").With("path", path).Wrap(err)
	}
}
