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
	"os"
	"path/filepath"
	"strings"
)

// LocalStore is a BlobStore over the local filesystem. Buckets are
// directories under root and keys are slash separated paths inside them.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage root is required")
	}
	return &LocalStore{root: root}, nil
}

func (l *LocalStore) Provider() string { return StorageProviderLocalFS }

func (l *LocalStore) path(bucket, key string) (string, error) {
	p := filepath.Join(l.root, bucket, filepath.FromSlash(key))
	base := filepath.Join(l.root, bucket)
	if p != base && !strings.HasPrefix(p, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("key %q escapes bucket %q", key, bucket)
	}
	return p, nil
}

func (l *LocalStore) Download(ctx context.Context, bucket, key, dst string) error {
	src, err := l.path(bucket, key)
	if err != nil {
		return err
	}
	return copyFile(ctx, src, dst)
}

func (l *LocalStore) Upload(ctx context.Context, bucket, key, src string) error {
	dst, err := l.path(bucket, key)
	if err != nil {
		return err
	}
	return copyFile(ctx, src, dst)
}

func (l *LocalStore) Ping(_ context.Context, bucket string) error {
	st, err := os.Stat(filepath.Join(l.root, bucket))
	if err != nil {
		return fmt.Errorf("bucket %s is not reachable: %w", bucket, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("bucket %s is not a directory", bucket)
	}
	return nil
}

func (l *LocalStore) Close() error { return nil }

func copyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := createDestination(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		discard(out)
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
