package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/nexus/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the NEXUS_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (NEXUS_SNAPSHOT_PATH, NEXUS_API_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: NEXUS_SNAPSHOT_PATH, NEXUS_EVENTS_BROKERS, etc.
	v.SetEnvPrefix("NEXUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Snapshot
	v.SetDefault("snapshot.driver", d.Snapshot.Driver)
	v.SetDefault("snapshot.path", d.Snapshot.Path)
	v.SetDefault("snapshot.format", d.Snapshot.Format)
	v.SetDefault("snapshot.dsn", d.Snapshot.DSN)
	v.SetDefault("snapshot.watch", d.Snapshot.Watch)
	v.SetDefault("snapshot.reload_interval", d.Snapshot.ReloadInterval)

	// API
	v.SetDefault("api.listen", d.API.Listen)
	v.SetDefault("api.session_ttl", d.API.SessionTTL)

	// Navigation
	v.SetDefault("navigation.page_size", d.Navigation.PageSize)
	v.SetDefault("navigation.preview_width", d.Navigation.PreviewWidth)
	v.SetDefault("navigation.known_types", d.Navigation.KnownTypes)

	// Trace
	v.SetDefault("trace.preview_width", d.Trace.PreviewWidth)

	// Insights
	v.SetDefault("insights.page_size", d.Insights.PageSize)
	v.SetDefault("insights.node_type", d.Insights.NodeType)

	// Edges
	v.SetDefault("edges.process", d.Edges.Process)
	v.SetDefault("edges.semantic", d.Edges.Semantic)

	// Events
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)
}

// FromViper resolves the effective Config through the viper precedence chain.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Snapshot: SnapshotConfig{
			Driver:         v.GetString("snapshot.driver"),
			Path:           v.GetString("snapshot.path"),
			Format:         v.GetString("snapshot.format"),
			DSN:            v.GetString("snapshot.dsn"),
			Watch:          v.GetBool("snapshot.watch"),
			ReloadInterval: v.GetString("snapshot.reload_interval"),
		},
		API: APIConfig{
			Listen:     v.GetString("api.listen"),
			SessionTTL: v.GetString("api.session_ttl"),
		},
		Navigation: NavigationConfig{
			PageSize:     v.GetInt("navigation.page_size"),
			PreviewWidth: v.GetInt("navigation.preview_width"),
			KnownTypes:   stringList(v, "navigation.known_types"),
		},
		Trace: TraceConfig{
			PreviewWidth: v.GetInt("trace.preview_width"),
		},
		Insights: InsightsConfig{
			PageSize: v.GetInt("insights.page_size"),
			NodeType: v.GetString("insights.node_type"),
		},
		Edges: EdgesConfig{
			Process:  stringList(v, "edges.process"),
			Semantic: stringList(v, "edges.semantic"),
		},
		Events: EventsConfig{
			Brokers: stringList(v, "events.brokers"),
			Topic:   v.GetString("events.topic"),
		},
	}
}

// stringList reads a list key. Values coming from the environment or a flag
// are comma separated strings; values from the TOML file are arrays.
func stringList(v *viper.Viper, key string) []string {
	if s, ok := v.Get(key).(string); ok {
		return SplitList(s)
	}
	out := v.GetStringSlice(key)
	if len(out) == 0 {
		return nil
	}
	return out
}
