package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

func createConfigDir(configDirPath string) error {
	if _, err := os.Stat(configDirPath); os.IsNotExist(err) {
		if err := os.MkdirAll(configDirPath, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		ancli.PrintOK(fmt.Sprintf("created config directory at: '%v'\n", configDirPath))
	}
	return nil
}

func createDefaultConfigFile[T any](configDirPath, configFileName string, dflt *T) error {
	configFilePath := filepath.Join(configDirPath, configFileName)
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		if misc.Truthy(os.Getenv("DEBUG")) {
			ancli.PrintOK(fmt.Sprintf("attempting to create file: '%v'\n", configFilePath))
		}
		err := CreateFile(configFilePath, dflt)
		if err != nil {
			return fmt.Errorf("failed to write config: '%v', error: %w", configFileName, err)
		}
	}
	return nil
}

// LoadConfigFromFile reads configDirPath/configFileName into a T. The directory
// and a file holding dflt are created when missing. Zero valued fields of the
// loaded config are back-filled from dflt, and the file rewritten, so that new
// fields show up in old config files.
func LoadConfigFromFile[T any](configDirPath, configFileName string, dflt *T) (T, error) {
	var conf T
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("attempting to load file: %v\n", filepath.Join(configDirPath, configFileName)))
	}
	if err := createConfigDir(configDirPath); err != nil {
		return conf, err
	}
	if err := createDefaultConfigFile(configDirPath, configFileName, dflt); err != nil {
		return conf, err
	}

	configPath := filepath.Join(configDirPath, configFileName)
	if err := ReadAndUnmarshal(configPath, &conf); err != nil {
		return conf, fmt.Errorf("failed to unmarshal config '%v', error: %w", configFileName, err)
	}

	if setNonZeroValueFields(&conf, dflt) {
		if err := CreateFile(configPath, &conf); err != nil {
			return conf, fmt.Errorf("failed to write config '%v' post zero-field appendage, error: %w", configFileName, err)
		}
		ancli.PrintOK(fmt.Sprintf("appended new fields to config file: %v\n", configPath))
	}

	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("found config: %+v\n", conf))
	}
	return conf, nil
}

// setNonZeroValueFields on a using b as template
func setNonZeroValueFields[T any](a, b *T) bool {
	hasChanged := false
	t := reflect.TypeOf(*a)
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		aVal := reflect.ValueOf(a).Elem().Field(i)
		bVal := reflect.ValueOf(b).Elem().Field(i)
		if aVal.IsZero() && !bVal.IsZero() {
			hasChanged = true
			aVal.Set(bVal)
		}
	}
	return hasChanged
}

// ReturnNonDefault picks whichever of a short and a long flag was set. Both
// being set is an error.
func ReturnNonDefault[T comparable](a, b, defaultVal T) (T, error) {
	if a != defaultVal && b != defaultVal {
		return defaultVal, fmt.Errorf("values are mutually exclusive")
	}
	if a != defaultVal {
		return a, nil
	}
	if b != defaultVal {
		return b, nil
	}
	return defaultVal, nil
}
