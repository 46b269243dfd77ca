// Package main is the Dagger module that tests, checks and releases nexus.
package main

import (
	"context"

	"dagger/nexus/internal/dagger"
)

type Nexus struct {
	// +private
	Source *dagger.Directory
}

func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp", "_examples"]
	source *dagger.Directory,
) *Nexus {
	return &Nexus{
		Source: source,
	}
}

// goContainer is golang on bookworm with the source mounted at /src. CGO is
// on for go-sqlite3.
func (t *Nexus) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithExec([]string{"apt-get", "update"}).
		WithExec([]string{"apt-get", "install", "-y", "gcc", "libsqlite3-dev"}).
		WithEnvVariable("CGO_ENABLED", "1").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", t.Source)
}

// Test runs "go test" over every package. The race detector is on unless
// disabled; pkgs narrows the run.
func (t *Nexus) Test(
	ctx context.Context,

	// +optional
	// +default="./..."
	pkgs string,

	// +optional
	noRace bool,
) (string, error) {
	args := []string{"go", "test", "-count=1"}
	if !noRace {
		args = append(args, "-race")
	}
	return t.goContainer().
		WithExec(append(args, pkgs)).
		Stdout(ctx)
}
