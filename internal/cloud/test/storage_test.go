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

package cloud_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zassert "github.com/zeebo/assert"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "covers"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "covers", "cov1.jpg"), []byte("cover"), 0o644))

	store, err := cloud.NewLocalStore(root)
	require.NoError(t, err)
	defer store.Close()

	dst := filepath.Join(t.TempDir(), "req", "anime-42.jpg")
	require.NoError(t, store.Download(ctx, "covers", "cov1.jpg", dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "cover", string(got))

	require.NoError(t, store.Upload(ctx, "previews", "output/dev_anime/42.jpg", dst))
	assert.FileExists(t, filepath.Join(root, "previews", "output", "dev_anime", "42.jpg"))

	assert.NoError(t, store.Ping(ctx, "previews"))
	assert.Error(t, store.Ping(ctx, "missing"))
}

func TestLocalStoreErrors(t *testing.T) {
	ctx := context.Background()
	store, err := cloud.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "cover.jpg")
	assert.Error(t, store.Download(ctx, "covers", "nope.jpg", dst))
	assert.NoFileExists(t, dst)

	assert.ErrorContains(t, store.Download(ctx, "covers", "../../etc/passwd", dst), "escapes bucket")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.Upload(cancelled, "previews", "k.jpg", dst), context.Canceled)

	_, err = cloud.NewLocalStore("")
	assert.Error(t, err)
}

func TestNewBlobStoreSelectsProvider(t *testing.T) {
	cfg := cloud.NewConfig()
	cfg.Storage.Provider = cloud.StorageProviderLocalFS
	cfg.Storage.LocalRoot = t.TempDir()

	store, err := cloud.NewBlobStore(context.Background(), cfg, &cloud.RuntimeConfig{})
	zassert.NoError(t, err)
	zassert.Equal(t, cloud.StorageProviderLocalFS, store.Provider())

	cfg.Storage.Provider = "ftp"
	_, err = cloud.NewBlobStore(context.Background(), cfg, &cloud.RuntimeConfig{})
	zassert.Error(t, err)
}

func TestNewNotifier(t *testing.T) {
	cfg := cloud.NewConfig()

	n, err := cloud.NewNotifier(context.Background(), cfg)
	zassert.NoError(t, err)
	zassert.NoError(t, n.Publish(context.Background(), "anime-1", map[string]int{"id": 1}))
	zassert.NoError(t, n.Close())

	cfg.Notifications.Provider = cloud.NotificationProviderKafka
	_, err = cloud.NewNotifier(context.Background(), cfg)
	zassert.Error(t, err)

	cfg.Notifications.Brokers = []string{"localhost:9092"}
	cfg.Notifications.Topic = "previews"
	n, err = cloud.NewNotifier(context.Background(), cfg)
	zassert.NoError(t, err)
	zassert.NoError(t, n.Close())

	cfg.Notifications.Provider = "smoke-signals"
	_, err = cloud.NewNotifier(context.Background(), cfg)
	zassert.Error(t, err)
}
