package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --snapshot
// on "nexus stat", "nexus trace" and "nexus serve").
type Flag struct {
	// Name is the long flag name (e.g. "snapshot").
	Name string

	// Shorthand is the one-letter short flag (e.g. "s"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "snapshot.path").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag, AddBoolFlag
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagSnapshot       = "snapshot"
	FlagDriver         = "driver"
	FlagFormat         = "snapshot-format"
	FlagDSN            = "dsn"
	FlagWatch          = "watch"
	FlagReloadInterval = "reload-interval"
	FlagListen         = "listen"
	FlagPageSize       = "page-size"
	FlagTraceWidth     = "width"
	FlagInsightsLimit  = "insights-limit"
	FlagEventBrokers   = "event-brokers"
	FlagEventTopic     = "event-topic"
)

// SnapshotFlags are the flags every command that opens a snapshot registers.
var SnapshotFlags = []string{FlagSnapshot, FlagDriver, FlagFormat, FlagDSN}

// Flags is the registry of all nexus CLI flags.
var Flags = FlagSet{
	FlagSnapshot: {
		Name:        "snapshot",
		Shorthand:   "s",
		ViperKey:    "snapshot.path",
		Description: "Snapshot file (json, yaml, graphml) or sqlite database",
	},
	FlagDriver: {
		Name:        "driver",
		ViperKey:    "snapshot.driver",
		Description: "Snapshot driver: file, sqlite or postgres",
	},
	FlagFormat: {
		Name:        "snapshot-format",
		ViperKey:    "snapshot.format",
		Description: "Force the snapshot file format: json, yaml or graphml",
	},
	FlagDSN: {
		Name:        "dsn",
		ViperKey:    "snapshot.dsn",
		Description: "PostgreSQL connection string for the postgres driver",
	},
	FlagWatch: {
		Name:        "watch",
		ViperKey:    "snapshot.watch",
		Description: "Reload the snapshot when the file changes",
	},
	FlagReloadInterval: {
		Name:        "reload-interval",
		ViperKey:    "snapshot.reload_interval",
		Description: "Poll the snapshot source at this interval (e.g. 30s)",
	},
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
	FlagPageSize: {
		Name:        "limit",
		Shorthand:   "n",
		ViperKey:    "navigation.page_size",
		Description: "Nodes per page",
	},
	FlagTraceWidth: {
		Name:        "width",
		Shorthand:   "w",
		ViperKey:    "trace.preview_width",
		Description: "Content preview width of trace lines",
	},
	FlagInsightsLimit: {
		Name:        "limit",
		Shorthand:   "n",
		ViperKey:    "insights.page_size",
		Description: "Insights per page",
	},
	FlagEventBrokers: {
		Name:        "event-brokers",
		ViperKey:    "events.brokers",
		Description: "Comma separated Kafka brokers for snapshot events",
	},
	FlagEventTopic: {
		Name:        "event-topic",
		ViperKey:    "events.topic",
		Description: "Kafka topic for snapshot events",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *int) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *bool) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultInt returns the default int value for a viper key from NewDefaultConfig.
func defaultInt(viperKey string) int {
	v := viper.New()
	setViperDefaults(v)
	return v.GetInt(viperKey)
}

// defaultBool returns the default bool value for a viper key from NewDefaultConfig.
func defaultBool(viperKey string) bool {
	v := viper.New()
	setViperDefaults(v)
	return v.GetBool(viperKey)
}
