// Package sourceutils constructs snapshot sources from configuration.
package sourceutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/nexus/pkg/source"
	"github.com/papercomputeco/nexus/pkg/source/file"
	"github.com/papercomputeco/nexus/pkg/source/postgres"
	"github.com/papercomputeco/nexus/pkg/source/sqlite"
)

// Supported snapshot drivers.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Drivers lists the accepted driver names.
var Drivers = []string{DriverFile, DriverSQLite, DriverPostgres}

type NewSourceOpts struct {
	// Driver selects the backend. Empty means file.
	Driver string

	// Path is the snapshot file for the file and sqlite drivers.
	Path string

	// Format forces the file format, otherwise detected from the extension.
	Format string

	// DSN is the postgres connection string.
	DSN string

	Logger *slog.Logger
}

func NewSource(ctx context.Context, o *NewSourceOpts) (source.Source, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch o.Driver {
	case "", DriverFile:
		format, err := file.ParseFormat(o.Format)
		if err != nil {
			return nil, err
		}
		src, err := file.New(o.Path, format)
		if err != nil {
			return nil, err
		}
		logger.Debug("using file snapshot source", "path", src.Path(), "format", src.Format())
		return src, nil

	case DriverSQLite:
		src, err := sqlite.New(ctx, o.Path)
		if err != nil {
			return nil, err
		}
		logger.Debug("using sqlite snapshot source", "path", src.Path())
		return src, nil

	case DriverPostgres:
		src, err := postgres.New(ctx, o.DSN)
		if err != nil {
			return nil, err
		}
		logger.Debug("using postgres snapshot source")
		return src, nil

	default:
		return nil, fmt.Errorf("unsupported snapshot driver: %s", o.Driver)
	}
}
