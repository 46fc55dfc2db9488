package utils

import (
	"encoding/json"
	"fmt"
	"os"
)

// CreateFile writes toCreate as indented JSON, truncating any existing file.
func CreateFile[T any](path string, toCreate *T) error {
	b, err := json.MarshalIndent(toCreate, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ReadAndUnmarshal reads filePath and unmarshals it into config.
func ReadAndUnmarshal[T any](filePath string, config *T) error {
	fileBytes, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := json.Unmarshal(fileBytes, config); err != nil {
		return fmt.Errorf("failed to unmarshal file: %w", err)
	}
	return nil
}
