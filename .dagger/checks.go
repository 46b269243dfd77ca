package main

import (
	"context"
	"errors"
	"fmt"

	"dagger/nexus/internal/dagger"
)

// check runs script in the Go container. A non-zero exit is reported with
// hint and the script output.
func (t *Nexus) check(ctx context.Context, hint, script string) (string, error) {
	out, err := t.goContainer().
		WithExec([]string{"sh", "-c", script}).
		Stdout(ctx)

	var execErr *dagger.ExecError
	if errors.As(err, &execErr) {
		return "", fmt.Errorf("%s\n\n%s%s", hint, execErr.Stdout, execErr.Stderr)
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

// CheckTidy fails when "go mod tidy" would change go.mod or go.sum.
//
// +check
func (t *Nexus) CheckTidy(ctx context.Context) (string, error) {
	return t.check(ctx,
		"go.mod or go.sum is not tidy, run 'go mod tidy'",
		"cp go.mod /tmp/go.mod && cp go.sum /tmp/go.sum && go mod tidy && "+
			"diff -u /tmp/go.mod go.mod && diff -u /tmp/go.sum go.sum && echo tidy",
	)
}

// CheckFormat fails when any Go file is not gofmt formatted.
//
// +check
func (t *Nexus) CheckFormat(ctx context.Context) (string, error) {
	return t.check(ctx,
		"unformatted files, run 'gofmt -w .'",
		`files=$(gofmt -l $(go list -f '{{.Dir}}' ./...)); [ -z "$files" ] || { echo "$files"; exit 1; }; echo formatted`,
	)
}

// CheckVet runs "go vet" over every package.
//
// +check
func (t *Nexus) CheckVet(ctx context.Context) (string, error) {
	return t.check(ctx, "go vet reported problems", "go vet ./... && echo vetted")
}
