// Package servecmder provides the serve command that runs the HTTP API and
// the MCP endpoint over a live snapshot.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/api"
	"github.com/papercomputeco/nexus/cmd/nexus/opener"
	"github.com/papercomputeco/nexus/pkg/cliui"
	"github.com/papercomputeco/nexus/pkg/config"
)

const serveLongDesc string = `Run the Nexus API server.

Serves the knowledge graph over HTTP under /v1 and as MCP tools under /mcp.
With --watch the snapshot file is reloaded when it changes; with
--reload-interval the source is polled instead. A failed reload keeps the
previous snapshot serving.

Every load is streamed as Server-Sent Events on /v1/events. When event
brokers are configured it is also published to Kafka.

Examples:
  nexus serve
  nexus serve --snapshot ./graph.json --watch
  nexus serve --driver postgres --dsn postgres://localhost/kg --reload-interval 1m
  nexus serve --listen :8008 --no-mcp
  nexus serve --log-file nexus.log`

const serveShortDesc string = "Run the HTTP and MCP server"

type serveCommander struct {
	listen         string
	watch          bool
	reloadInterval string
	eventBrokers   string
	eventTopic     string
	noMCP          bool
	jsonLogs       bool
	logFile        string
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	opener.AddSnapshotFlags(cmd)
	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddBoolFlag(cmd, config.Flags, config.FlagWatch, &cmder.watch)
	config.AddStringFlag(cmd, config.Flags, config.FlagReloadInterval, &cmder.reloadInterval)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventBrokers, &cmder.eventBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventTopic, &cmder.eventTopic)
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Do not mount the MCP endpoint")
	cmd.Flags().BoolVar(&cmder.jsonLogs, "json-logs", false, "Log JSON instead of text")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also append debug logs as JSON to this file")

	return cmd
}

func (c *serveCommander) run(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []opener.Option{
		opener.AsService(),
		opener.WithEvents(),
		opener.WithoutLoad(),
		opener.WithFlags(
			config.FlagListen,
			config.FlagWatch,
			config.FlagReloadInterval,
			config.FlagEventBrokers,
			config.FlagEventTopic,
		),
	}
	if c.jsonLogs {
		opts = append(opts, opener.WithJSONLogs())
	}
	if c.logFile != "" {
		opts = append(opts, opener.WithLogFile(c.logFile))
	}

	o, err := opener.Open(ctx, cmd, opts...)
	if err != nil {
		return err
	}
	defer o.Close()

	load := func() error {
		_, err := o.Store.Load(ctx)
		return err
	}
	if c.jsonLogs {
		err = load()
	} else {
		err = cliui.Step(cmd.ErrOrStderr(), "Loading snapshot "+o.Store.Source().Name(), load)
	}
	if err != nil {
		return err
	}

	ttl, err := o.Config.API.SessionTimeout()
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Config{
		ListenAddr:      o.Config.API.Listen,
		SessionTTL:      ttl,
		PageSize:        o.Config.Navigation.PageSize,
		InsightPageSize: o.Config.Insights.PageSize,
		DisableMCP:      c.noMCP,
		Events:          o.Events,
	}, o.Engine, o.Logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	errChan := make(chan error, 2)

	interval, err := o.Config.Snapshot.ReloadEvery()
	if err != nil {
		return err
	}
	if o.Config.Snapshot.Watch || interval > 0 {
		go func() {
			if err := o.Store.Watch(ctx); err != nil {
				errChan <- fmt.Errorf("snapshot watcher: %w", err)
			}
		}()
	}

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		_ = server.Shutdown()
		return err
	case <-ctx.Done():
		o.Logger.Info("shutting down")
		if err := server.Shutdown(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}
