// Package initcmder provides the init command for initializing a local .nexus
// directory in the current working directory.
package initcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/pkg/cliui"
	"github.com/papercomputeco/nexus/pkg/config"
)

const (
	dirName    = ".nexus"
	configFile = "config.toml"

	presetFetchTimeout = 10 * time.Second
	maxPresetSize      = 1 << 20
)

const initLongDesc string = `Initialize a new .nexus/ directory in the current working directory.

Creates a local .nexus/ directory that takes precedence over the default
~/.nexus/ directory for configuration and navigation state, and writes a
config.toml with default values.

Use --preset to start from a snapshot driver preset (file, sqlite, postgres)
or from a config.toml fetched from an http(s) URL.

Examples:
  nexus init
  nexus init --preset sqlite
  nexus init --preset https://example.com/nexus/config.toml`

const initShortDesc string = "Initialize a local .nexus/ directory"

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Preset name ("+strings.Join(config.ValidPresetNames(), ", ")+") or config.toml URL")

	return cmd
}

func (c *initCommander) run(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := c.presetConfig(ctx, out)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	alreadyInitialized := err == nil && info.IsDir()
	if !alreadyInitialized {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .nexus directory: %w", err)
		}
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return err
	}

	// An existing config is only replaced when a preset was asked for.
	_, statErr := os.Stat(filepath.Join(dir, configFile))
	if errors.Is(statErr, os.ErrNotExist) || c.preset != "" {
		if err := cfger.SaveConfig(cfg); err != nil {
			return err
		}
	}

	if alreadyInitialized {
		fmt.Fprintf(out, "Already initialized: %s\n", dir)
		return nil
	}

	fmt.Fprintf(out, "  %s Initialized .nexus directory: %s\n", cliui.SuccessMark, dir)
	return nil
}

func (c *initCommander) presetConfig(ctx context.Context, out io.Writer) (*config.Config, error) {
	switch {
	case c.preset == "":
		return config.NewDefaultConfig(), nil
	case strings.HasPrefix(c.preset, "http://"), strings.HasPrefix(c.preset, "https://"):
		var cfg *config.Config
		err := cliui.Step(out, "Fetching preset", func() error {
			var err error
			cfg, err = fetchConfig(ctx, c.preset)
			return err
		})
		return cfg, err
	default:
		return config.PresetConfig(c.preset)
	}
}

func fetchConfig(ctx context.Context, url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, presetFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building preset request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching preset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching preset: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPresetSize))
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}

	cfg, err := config.ParseConfigTOML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}
	return cfg, nil
}
