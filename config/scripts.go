package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var scriptsFS embed.FS

// LoadScript reads a launch script from disk, falling back to the embedded
// scripts directory.
func LoadScript(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	clean := filepath.ToSlash(name)
	clean = strings.TrimPrefix(clean, "config/")
	clean = strings.TrimPrefix(clean, "scripts/")
	data, err := scriptsFS.ReadFile("scripts/" + clean)
	if err != nil {
		return nil, fmt.Errorf("config: script %s: %w", name, err)
	}
	return data, nil
}
