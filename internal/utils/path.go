package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetConfigDir returns <UserConfigDir>/.zai, unless overridden by
// ZAI_CONFIG_HOME.
func GetConfigDir() (string, error) {
	if home := os.Getenv("ZAI_CONFIG_HOME"); home != "" {
		return home, nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(cfg, ".zai"), nil
}
