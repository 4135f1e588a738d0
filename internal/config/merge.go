package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyVersion = "version"
	keyWindow  = "window"
	keyOutput  = "output"
	keyLogging = "logging"
	keyCache   = "cache"
	keyRoster  = "roster"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyVersion: true,
	keyWindow:  true,
	keyOutput:  true,
	keyLogging: true,
	keyCache:   true,
	keyRoster:  true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]any
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes one section into a zero value and assigns it, so a
// section in the overlay fully replaces the target's section.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyVersion:
		return yaml.Unmarshal(data, &target.Version)
	case keyWindow:
		return replaceSection(data, &target.Window)
	case keyOutput:
		return replaceSection(data, &target.Output)
	case keyLogging:
		return replaceSection(data, &target.Logging)
	case keyCache:
		return replaceSection(data, &target.Cache)
	case keyRoster:
		return replaceSection(data, &target.Roster)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

func replaceSection[T any](data []byte, dst *T) error {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}
