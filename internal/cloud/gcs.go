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
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore is a BlobStore backed by Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore creates a GCS client. A non-empty endpoint points the client
// at an emulator and disables authentication.
func NewGCSStore(ctx context.Context, endpoint string) (*GCSStore, error) {
	var opts []option.ClientOption
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client}, nil
}

func (s *GCSStore) Provider() string { return StorageProviderGCS }

func (s *GCSStore) Download(ctx context.Context, bucket, key, dst string) error {
	reader, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to create GCS reader for gs://%s/%s: %w", bucket, key, err)
	}
	defer func(reader *storage.Reader) {
		if err := reader.Close(); err != nil {
			slog.Warn("failed to close GCS reader", "error", err)
		}
	}(reader)

	f, err := createDestination(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	written, err := io.Copy(f, reader)
	if err != nil {
		discard(f)
		return fmt.Errorf("failed to copy gs://%s/%s after %d bytes: %w", bucket, key, written, err)
	}
	return f.Close()
}

func (s *GCSStore) Upload(ctx context.Context, bucket, key, src string) error {
	dat, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", src, err)
	}
	defer dat.Close()

	writer := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentTypeOf(src)

	if written, err := io.Copy(writer, dat); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to copy to gs://%s/%s, %d bytes written: %w", bucket, key, written, err)
	}
	// The object is only committed when the writer closes.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize gs://%s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *GCSStore) Ping(ctx context.Context, bucket string) error {
	if _, err := s.client.Bucket(bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("bucket gs://%s is not reachable: %w", bucket, err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
