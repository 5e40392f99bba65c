// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cloud

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
)

// BlobStore moves whole files between the local disk and a bucket. All
// implementations are safe for concurrent use.
type BlobStore interface {
	// Provider names the backing implementation (s3, gcs, localfs).
	Provider() string
	// Download copies bucket/key into the local file dst, creating or
	// truncating it. A partially written dst is removed on failure.
	Download(ctx context.Context, bucket, key, dst string) error
	// Upload copies the local file src to bucket/key, replacing any object
	// already stored there.
	Upload(ctx context.Context, bucket, key, src string) error
	// Ping checks that bucket is reachable.
	Ping(ctx context.Context, bucket string) error
	Close() error
}

// NewBlobStore builds the BlobStore selected by storage.provider.
//
// Inputs:
//   - ctx: Used while resolving credentials.
//   - config: The application configuration (provider, region, local root).
//   - runtime: The environment configuration (endpoint and static keys).
//
// Outputs:
//   - BlobStore: The configured store.
//   - error: An unknown provider or a client construction failure.
func NewBlobStore(ctx context.Context, config *Config, runtime *RuntimeConfig) (BlobStore, error) {
	var (
		store BlobStore
		err   error
	)
	switch config.Storage.Provider {
	case StorageProviderS3, "":
		store, err = NewS3Store(ctx, S3Options{
			Region:       config.Storage.Region,
			Endpoint:     runtime.S3Endpoint,
			KeyID:        runtime.S3KeyID,
			AccessKey:    runtime.S3AccessKey,
			UsePathStyle: config.Storage.UsePathStyle,
		})
	case StorageProviderGCS:
		store, err = NewGCSStore(ctx, runtime.S3Endpoint)
	case StorageProviderLocalFS:
		store, err = NewLocalStore(config.Storage.LocalRoot)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", config.Storage.Provider)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("object storage ready", "provider", store.Provider())
	return store, nil
}

// contentTypeOf sniffs the MIME type of a local file.
func contentTypeOf(path string) string {
	kind, err := filetype.MatchFile(path)
	if err != nil || kind == filetype.Unknown {
		return "application/octet-stream"
	}
	return kind.MIME.Value
}

// createDestination opens dst for writing, creating parent directories.
func createDestination(dst string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, err
	}
	return os.Create(dst)
}

// discard closes and removes a partially written file.
func discard(f *os.File) {
	_ = f.Close()
	if err := os.Remove(f.Name()); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove partial download", "file", f.Name(), "error", err)
	}
}
