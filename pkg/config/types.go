package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the persistent nexus configuration stored as config.toml
// in the .nexus/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Snapshot   SnapshotConfig   `toml:"snapshot"`
	API        APIConfig        `toml:"api"`
	Navigation NavigationConfig `toml:"navigation"`
	Trace      TraceConfig      `toml:"trace"`
	Insights   InsightsConfig   `toml:"insights"`
	Edges      EdgesConfig      `toml:"edges"`
	Events     EventsConfig     `toml:"events"`
}

// SnapshotConfig selects where the knowledge graph snapshot is read from.
type SnapshotConfig struct {
	// Driver is one of file, sqlite or postgres.
	Driver string `toml:"driver,omitempty"`

	// Path is the snapshot file for the file and sqlite drivers.
	Path string `toml:"path,omitempty"`

	// Format forces json, yaml or graphml for the file driver.
	Format string `toml:"format,omitempty"`

	DSN string `toml:"dsn,omitempty"`

	// Watch reloads the snapshot when the file changes while serving.
	Watch bool `toml:"watch,omitempty"`

	// ReloadInterval polls the source instead of watching, e.g. "30s".
	ReloadInterval string `toml:"reload_interval,omitempty"`
}

// ReloadEvery parses ReloadInterval. An empty value disables polling.
func (s SnapshotConfig) ReloadEvery() (time.Duration, error) {
	if strings.TrimSpace(s.ReloadInterval) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.ReloadInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot.reload_interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid snapshot.reload_interval: %s is negative", d)
	}
	return d, nil
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`

	// SessionTTL expires idle navigation sessions, e.g. "30m".
	SessionTTL string `toml:"session_ttl,omitempty"`
}

// SessionTimeout parses SessionTTL. An empty value keeps sessions forever.
func (a APIConfig) SessionTimeout() (time.Duration, error) {
	if strings.TrimSpace(a.SessionTTL) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid api.session_ttl: %w", err)
	}
	return d, nil
}

// NavigationConfig holds settings for listing and neighborhood browsing.
type NavigationConfig struct {
	PageSize     int `toml:"page_size,omitempty"`
	PreviewWidth int `toml:"preview_width,omitempty"`

	// KnownTypes are schema types that list as empty rather than unknown when
	// the snapshot has no instances of them.
	KnownTypes []string `toml:"known_types,omitempty"`
}

// TraceConfig holds trace rendering settings.
type TraceConfig struct {
	PreviewWidth int `toml:"preview_width,omitempty"`
}

// InsightsConfig holds insight listing settings.
type InsightsConfig struct {
	PageSize int    `toml:"page_size,omitempty"`
	NodeType string `toml:"node_type,omitempty"`
}

// EdgesConfig registers edge kinds beyond the built-in ones.
type EdgesConfig struct {
	Process  []string `toml:"process,omitempty"`
	Semantic []string `toml:"semantic,omitempty"`
}

// EventsConfig enables publishing snapshot events to Kafka.
type EventsConfig struct {
	Brokers []string `toml:"brokers,omitempty"`
	Topic   string   `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func intKey(name string, field func(c *Config) *int) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.Itoa(*field(c))
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			if n < 0 {
				return fmt.Errorf("invalid value for %s: must not be negative", name)
			}
			*field(c) = n
			return nil
		},
	}
}

// listKey exposes a string slice as a comma separated value.
func listKey(field func(c *Config) *[]string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strings.Join(*field(c), ",") },
		set: func(c *Config, v string) error {
			*field(c) = SplitList(v)
			return nil
		},
	}
}

func durationKey(name string, field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			if v != "" {
				if _, err := time.ParseDuration(v); err != nil {
					return fmt.Errorf("invalid value for %s: %w", name, err)
				}
			}
			*field(c) = v
			return nil
		},
	}
}

// SplitList splits a comma separated value, dropping empty entries.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"snapshot.driver": {
		get: func(c *Config) string { return c.Snapshot.Driver },
		set: func(c *Config, v string) error {
			switch v {
			case "", "file", "sqlite", "postgres":
				c.Snapshot.Driver = v
				return nil
			default:
				return fmt.Errorf("invalid value for snapshot.driver: %q (want file, sqlite or postgres)", v)
			}
		},
	},
	"snapshot.path": {
		get: func(c *Config) string { return c.Snapshot.Path },
		set: func(c *Config, v string) error { c.Snapshot.Path = v; return nil },
	},
	"snapshot.format": {
		get: func(c *Config) string { return c.Snapshot.Format },
		set: func(c *Config, v string) error { c.Snapshot.Format = v; return nil },
	},
	"snapshot.dsn": {
		get: func(c *Config) string { return c.Snapshot.DSN },
		set: func(c *Config, v string) error { c.Snapshot.DSN = v; return nil },
	},
	"snapshot.watch": {
		get: func(c *Config) string { return strconv.FormatBool(c.Snapshot.Watch) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for snapshot.watch: %w", err)
			}
			c.Snapshot.Watch = b
			return nil
		},
	},
	"snapshot.reload_interval": durationKey("snapshot.reload_interval", func(c *Config) *string { return &c.Snapshot.ReloadInterval }),
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"api.session_ttl":          durationKey("api.session_ttl", func(c *Config) *string { return &c.API.SessionTTL }),
	"navigation.page_size":     intKey("navigation.page_size", func(c *Config) *int { return &c.Navigation.PageSize }),
	"navigation.preview_width": intKey("navigation.preview_width", func(c *Config) *int { return &c.Navigation.PreviewWidth }),
	"navigation.known_types":   listKey(func(c *Config) *[]string { return &c.Navigation.KnownTypes }),
	"trace.preview_width":      intKey("trace.preview_width", func(c *Config) *int { return &c.Trace.PreviewWidth }),
	"insights.page_size":       intKey("insights.page_size", func(c *Config) *int { return &c.Insights.PageSize }),
	"insights.node_type": {
		get: func(c *Config) string { return c.Insights.NodeType },
		set: func(c *Config, v string) error { c.Insights.NodeType = v; return nil },
	},
	"edges.process":  listKey(func(c *Config) *[]string { return &c.Edges.Process }),
	"edges.semantic": listKey(func(c *Config) *[]string { return &c.Edges.Semantic }),
	"events.brokers": listKey(func(c *Config) *[]string { return &c.Events.Brokers }),
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}
