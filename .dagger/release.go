package main

import (
	"context"
	"fmt"
	"path"

	"dagger/nexus/internal/dagger"
)

// bucket is an S3 compatible destination for release artifacts.
type bucket struct {
	endpoint        *dagger.Secret
	name            *dagger.Secret
	accessKeyID     *dagger.Secret
	secretAccessKey *dagger.Secret
}

// sync copies artifacts under prefix in the bucket.
func (b *bucket) sync(ctx context.Context, artifacts *dagger.Directory, prefix string) error {
	name, err := b.name.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("reading bucket name: %w", err)
	}
	endpoint, err := b.endpoint.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("reading bucket endpoint: %w", err)
	}

	_, err = dag.Container().
		From("amazon/aws-cli:latest").
		WithSecretVariable("AWS_ACCESS_KEY_ID", b.accessKeyID).
		WithSecretVariable("AWS_SECRET_ACCESS_KEY", b.secretAccessKey).
		WithEnvVariable("AWS_DEFAULT_REGION", "auto").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts").
		WithExec([]string{
			"aws", "s3", "sync", ".",
			"s3://" + path.Join(name, prefix),
			"--endpoint-url", endpoint,
		}).
		Sync(ctx)
	if err != nil {
		return fmt.Errorf("syncing %s: %w", prefix, err)
	}
	return nil
}

// withChecksums adds a SHA256SUMS file covering every binary in artifacts.
func withChecksums(artifacts *dagger.Directory) *dagger.Directory {
	sums := dag.Container().
		From("debian:bookworm-slim").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts").
		WithExec([]string{"sh", "-c", "find linux -type f | sort | xargs sha256sum > SHA256SUMS"}).
		File("/artifacts/SHA256SUMS")
	return artifacts.WithFile("SHA256SUMS", sums)
}

// Publish builds release binaries stamped with version and commit and uploads
// them under the version prefix. Nightly builds pass "nightly" as the version.
// With latest set the same artifacts are also uploaded under "latest".
func (t *Nexus) Publish(
	ctx context.Context,

	// Version string (e.g., "v1.0.0" or "nightly")
	version string,

	// Git commit SHA
	commit string,

	// Bucket endpoint URL
	endpoint *dagger.Secret,

	// Bucket name
	bucketName *dagger.Secret,

	// Bucket access key ID
	accessKeyID *dagger.Secret,

	// Bucket secret access key
	secretAccessKey *dagger.Secret,

	// Also upload under "latest"
	// +optional
	latest bool,
) (*dagger.Directory, error) {
	artifacts := withChecksums(t.BuildRelease(ctx, version, commit))
	dest := &bucket{
		endpoint:        endpoint,
		name:            bucketName,
		accessKeyID:     accessKeyID,
		secretAccessKey: secretAccessKey,
	}

	prefixes := []string{version}
	if latest {
		prefixes = append(prefixes, "latest")
	}
	for _, prefix := range prefixes {
		if err := dest.sync(ctx, artifacts, prefix); err != nil {
			return artifacts, err
		}
	}
	return artifacts, nil
}
