package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// keyAccessor reads and writes one dotted config key as a string.
type keyAccessor struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

//nolint:gochecknoglobals // Static key table.
var keyAccessors = map[string]keyAccessor{
	"version": {
		get: func(c *Config) string { return c.Version },
		set: func(c *Config, v string) error { c.Version = v; return nil },
	},
	"window.item_extent": {
		get: func(c *Config) string { return formatFloat(c.Window.ItemExtent) },
		set: func(c *Config, v string) error { return parseFloatInto(&c.Window.ItemExtent, v) },
	},
	"window.viewport_extent": {
		get: func(c *Config) string { return formatFloat(c.Window.ViewportExtent) },
		set: func(c *Config, v string) error { return parseFloatInto(&c.Window.ViewportExtent, v) },
	},
	"window.overscan": {
		get: func(c *Config) string { return strconv.Itoa(c.Window.Overscan) },
		set: func(c *Config, v string) error { return parseIntInto(&c.Window.Overscan, v) },
	},
	"output.default_format": {
		get: func(c *Config) string { return c.Output.DefaultFormat },
		set: func(c *Config, v string) error { c.Output.DefaultFormat = strings.ToLower(v); return nil },
	},
	"output.color": {
		get: func(c *Config) string { return c.Output.Color },
		set: func(c *Config, v string) error { c.Output.Color = strings.ToLower(v); return nil },
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error { c.Logging.Level = strings.ToLower(v); return nil },
	},
	"logging.format": {
		get: func(c *Config) string { return c.Logging.Format },
		set: func(c *Config, v string) error { c.Logging.Format = strings.ToLower(v); return nil },
	},
	"logging.file": {
		get: func(c *Config) string { return c.Logging.File },
		set: func(c *Config, v string) error { c.Logging.File = v; return nil },
	},
	"cache.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Cache.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false: %w", err)
			}
			c.Cache.Enabled = b
			return nil
		},
	},
	"cache.ttl_seconds": {
		get: func(c *Config) string { return strconv.Itoa(c.Cache.TTLSeconds) },
		set: func(c *Config, v string) error { return parseIntInto(&c.Cache.TTLSeconds, v) },
	},
	"cache.max_entries": {
		get: func(c *Config) string { return strconv.Itoa(c.Cache.MaxEntries) },
		set: func(c *Config, v string) error { return parseIntInto(&c.Cache.MaxEntries, v) },
	},
	"roster.source": {
		get: func(c *Config) string { return c.Roster.Source },
		set: func(c *Config, v string) error { c.Roster.Source = v; return nil },
	},
	"roster.synthetic_count": {
		get: func(c *Config) string { return strconv.Itoa(c.Roster.SyntheticCount) },
		set: func(c *Config, v string) error { return parseIntInto(&c.Roster.SyntheticCount, v) },
	},
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(keyAccessors))
	for k := range keyAccessors {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the value of a dotted key such as "window.overscan".
func (c *Config) Get(key string) (string, error) {
	acc, ok := keyAccessors[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return acc.get(c), nil
}

// Set parses value into a dotted key. The result is not validated; call Validate.
func (c *Config) Set(key, value string) error {
	acc, ok := keyAccessors[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := acc.set(c, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// List returns every key with its current value.
func (c *Config) List() map[string]string {
	out := make(map[string]string, len(keyAccessors))
	for k, acc := range keyAccessors {
		out[k] = acc.get(c)
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func parseFloatInto(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("expected a number: %w", err)
	}
	*dst = f
	return nil
}

func parseIntInto(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("expected an integer: %w", err)
	}
	*dst = n
	return nil
}
