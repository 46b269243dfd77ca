// Package opener resolves the effective configuration of a command and opens
// the snapshot it queries.
package opener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/nexus/cmd/nexus/snapshotpath"
	"github.com/papercomputeco/nexus/pkg/config"
	"github.com/papercomputeco/nexus/pkg/engine"
	"github.com/papercomputeco/nexus/pkg/eventstream"
	"github.com/papercomputeco/nexus/pkg/eventstream/broadcast"
	"github.com/papercomputeco/nexus/pkg/eventstream/kafka"
	"github.com/papercomputeco/nexus/pkg/logger"
	sourceutils "github.com/papercomputeco/nexus/pkg/source/utils"
	"github.com/papercomputeco/nexus/pkg/store"
)

type options struct {
	flags   []string
	events  bool
	noLoad  bool
	json    bool
	service bool
	logFile string
}

// Option configures Open.
type Option func(*options)

// WithFlags binds additional registered flags of the command to the config.
// The snapshot flags are always bound.
func WithFlags(keys ...string) Option {
	return func(o *options) { o.flags = append(o.flags, keys...) }
}

// WithEvents publishes snapshot load events to Kafka when brokers are configured.
func WithEvents() Option {
	return func(o *options) { o.events = true }
}

// WithoutLoad skips the initial load. Queries fail with store.ErrNotLoaded
// until the caller loads the store.
func WithoutLoad() Option {
	return func(o *options) { o.noLoad = true }
}

// WithJSONLogs logs JSON instead of human readable text.
func WithJSONLogs() Option {
	return func(o *options) { o.json = true }
}

// WithLogFile additionally appends JSON logs at Debug to path.
func WithLogFile(path string) Option {
	return func(o *options) { o.logFile = path }
}

// AsService logs at Info and broadcasts snapshot events in process for the
// API event stream. One-shot commands only log warnings unless --debug is set.
func AsService() Option {
	return func(o *options) { o.service = true }
}

// Opened is a loaded snapshot with everything needed to query it.
type Opened struct {
	Config    *config.Config
	ConfigDir string
	Logger    *slog.Logger
	Store     *store.Store
	Engine    *engine.Engine

	// Events is set for services and receives every snapshot event.
	Events *broadcast.Broadcaster

	logFile *os.File
}

// Close releases the snapshot source, the event publisher and the log file.
func (o *Opened) Close() error {
	err := o.Store.Close()
	if o.logFile != nil {
		err = errors.Join(err, o.logFile.Close())
	}
	return err
}

// Open resolves the config for cmd (flags over NEXUS_ env over config.toml
// over defaults), opens the configured source and loads the first snapshot.
func Open(ctx context.Context, cmd *cobra.Command, opts ...Option) (*Opened, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	configDir, _ := cmd.Flags().GetString("config-dir")
	debug, _ := cmd.Flags().GetBool("debug")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, append(config.SnapshotFlags, o.flags...))
	cfg := config.FromViper(v)

	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case o.service:
		level = slog.LevelInfo
	}
	log := NewLogger(level, o.json)

	var logFile *os.File
	if o.logFile != "" {
		logFile, err = os.OpenFile(o.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		log = logger.Multi(log, logger.New(
			logger.WithLevel(slog.LevelDebug),
			logger.WithFormat(logger.FormatJSON),
			logger.WithWriter(logFile),
		))
	}
	closeLog := func() {
		if logFile != nil {
			_ = logFile.Close()
		}
	}

	kinds, err := cfg.Kinds()
	if err != nil {
		closeLog()
		return nil, err
	}

	path := cfg.Snapshot.Path
	if cfg.Snapshot.Driver != sourceutils.DriverPostgres {
		path, err = snapshotpath.ResolveSnapshotPath(path, cfg.Snapshot.Driver)
		if err != nil {
			closeLog()
			return nil, err
		}
	}

	src, err := sourceutils.NewSource(ctx, &sourceutils.NewSourceOpts{
		Driver: cfg.Snapshot.Driver,
		Path:   path,
		Format: cfg.Snapshot.Format,
		DSN:    cfg.Snapshot.DSN,
		Logger: log,
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("opening snapshot source: %w", err)
	}

	storeOpts := []store.Option{
		store.WithKinds(kinds),
		store.WithInsightType(cfg.Insights.NodeType),
		store.WithLogger(log),
	}

	interval, err := cfg.Snapshot.ReloadEvery()
	if err != nil {
		_ = src.Close()
		closeLog()
		return nil, err
	}
	if interval > 0 {
		storeOpts = append(storeOpts, store.WithReloadInterval(interval))
	}

	var (
		publishers []eventstream.Publisher
		events     *broadcast.Broadcaster
	)
	if o.service {
		events = broadcast.New()
		publishers = append(publishers, events)
	}

	if o.events && len(cfg.Events.Brokers) > 0 {
		pub, err := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
		})
		if err != nil {
			_ = src.Close()
			closeLog()
			return nil, fmt.Errorf("creating event publisher: %w", err)
		}
		log.Info("publishing snapshot events",
			"brokers", cfg.Events.Brokers,
			"topic", cfg.Events.Topic,
		)
		publishers = append(publishers, pub)
	}
	if len(publishers) > 0 {
		storeOpts = append(storeOpts, store.WithPublisher(eventstream.Fanout(publishers...)))
	}

	st := store.New(src, storeOpts...)
	opened := &Opened{
		Config:    cfg,
		ConfigDir: configDir,
		Logger:    log,
		Store:     st,
		Events:    events,
		logFile:   logFile,
		Engine: engine.New(st, engine.Config{
			KnownTypes:             cfg.Navigation.KnownTypes,
			NavigationPreviewWidth: cfg.Navigation.PreviewWidth,
			TracePreviewWidth:      cfg.Trace.PreviewWidth,
			InsightNodeType:        cfg.Insights.NodeType,
		}),
	}

	if !o.noLoad {
		if _, err := st.Load(ctx); err != nil {
			_ = opened.Close()
			return nil, err
		}
	}

	return opened, nil
}

// NewLogger logs to stderr, colorized when stderr is a terminal.
func NewLogger(level slog.Level, json bool) *slog.Logger {
	format := logger.FormatText
	switch {
	case json:
		format = logger.FormatJSON
	case term.IsTerminal(int(os.Stderr.Fd())):
		format = logger.FormatPretty
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithWriter(os.Stderr),
	)
}

// AddSnapshotFlags registers the flags that select the snapshot source. Their
// values reach the config through the viper binding done by Open.
func AddSnapshotFlags(cmd *cobra.Command) {
	for _, key := range config.SnapshotFlags {
		config.AddStringFlag(cmd, config.Flags, key, new(string))
	}
}
