// Package home locates the mapscrape home directory:
//
//	~/.mapscrape/
//	  config.yaml
//	  exports/     CSV files written by "mapscrape search"
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultDirName = ".mapscrape"
	ExportsDirName = "exports"
	ConfigFileName = "config.yaml"
)

// Dir is a home directory root. Nothing is created until EnsureExists.
type Dir struct {
	root string
}

// New returns the Dir at path, or ~/.mapscrape when path is empty.
func New(path string) (*Dir, error) {
	if path != "" {
		return &Dir{root: path}, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return &Dir{root: filepath.Join(userHome, DefaultDirName)}, nil
}

func (d *Dir) Path() string { return d.root }

func (d *Dir) ConfigPath() string { return filepath.Join(d.root, ConfigFileName) }

func (d *Dir) ExportsDir() string { return filepath.Join(d.root, ExportsDirName) }

// ExportPath joins filename onto ExportsDir.
func (d *Dir) ExportPath(filename string) string {
	return filepath.Join(d.ExportsDir(), filename)
}

// EnsureExists creates the root and exports/ if missing.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.ExportsDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create exports directory: %w", err)
	}
	return nil
}

func (d *Dir) Exists() bool { return exists(d.root) }

func (d *Dir) ConfigExists() bool { return exists(d.ConfigPath()) }

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
