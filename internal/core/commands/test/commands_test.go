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

package commands_test

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/media-preview-service/internal/core/commands"
	"github.com/jaycherian/media-preview-service/internal/core/cor"
	"github.com/jaycherian/media-preview-service/internal/core/model"
	test "github.com/jaycherian/media-preview-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(in any) cor.Context {
	chCtx := cor.NewBaseContext()
	chCtx.SetContext(context.Background())
	chCtx.Add(cor.CtxIn, in)
	return chCtx
}

func adapt(t *testing.T, payload []byte, cover string) cor.Context {
	t.Helper()
	chCtx := newContext(&model.GenerateRequest{Payload: payload, Cover: cover})
	commands.NewItemAdapter("item-adapter").Execute(chCtx)
	return chCtx
}

func TestItemAdapter(t *testing.T) {
	chCtx := adapt(t, model.GetExampleMangaPayload(), "c.jpg")
	require.False(t, chCtx.HasErrors())

	item := chCtx.Get(cor.CtxOut).(*model.Item)
	assert.Equal(t, model.KindManga, item.Kind())
	assert.Same(t, item, chCtx.Get(commands.GetItemParameterName()))
	assert.NotNil(t, chCtx.Get(commands.GetRequestParameterName()))

	chCtx = adapt(t, model.GetExampleMangaPayload(), "")
	assert.ErrorIs(t, chCtx.Err(), commands.ErrMissingCover)

	chCtx = adapt(t, []byte(`{"id": 3}`), "c.jpg")
	assert.ErrorIs(t, chCtx.Err(), model.ErrUnknownKind)
}

func TestCoverDownload(t *testing.T) {
	store := test.NewMemoryStore()
	store.Put("covers", "a/b.jpg", test.JPEG(t, 10, 10, color.White))
	workDir := t.TempDir()

	chCtx := adapt(t, model.GetExampleAnimePayload(), "a/b.jpg")
	chCtx.Add(cor.CtxIn, chCtx.Get(cor.CtxOut))
	chCtx.Remove(cor.CtxOut)
	commands.NewCoverDownload("cover-download", store, "covers", workDir).Execute(chCtx)
	require.NoError(t, chCtx.Err())

	item := chCtx.Get(cor.CtxOut).(*model.Item)
	assert.Equal(t, "anime-42.jpg", filepath.Base(item.CoverPath))
	assert.FileExists(t, item.CoverPath)
	dir := chCtx.Get(commands.GetRequestDirParameterName()).(string)
	assert.Equal(t, workDir, filepath.Dir(dir))

	require.NoError(t, chCtx.Close())
	assert.NoDirExists(t, dir)
}

func TestCoverDownloadRejectsNonImages(t *testing.T) {
	store := test.NewMemoryStore()
	store.Put("covers", "notes.txt", []byte("definitely not a picture"))

	chCtx := adapt(t, model.GetExampleAnimePayload(), "notes.txt")
	chCtx.Add(cor.CtxIn, chCtx.Get(cor.CtxOut))
	commands.NewCoverDownload("cover-download", store, "covers", t.TempDir()).Execute(chCtx)
	assert.ErrorContains(t, chCtx.Err(), "is not an image")
	require.NoError(t, chCtx.Close())
}

func TestPreviewNotify(t *testing.T) {
	item, err := model.NewItem(model.GetExampleAnimePayload())
	require.NoError(t, err)

	notifier := &test.RecordingNotifier{}
	chCtx := newContext("output/anime/42.jpg")
	chCtx.Add(commands.GetItemParameterName(), item)
	commands.NewPreviewNotify("preview-notify", notifier, "previews", "Anime.News").Execute(chCtx)

	require.Len(t, notifier.Events, 1)
	event := notifier.Events[0].Event.(model.PreviewEvent)
	assert.Equal(t, "Anime.News", event.Source)
	assert.Equal(t, "output/anime/42.jpg", event.Key)
	assert.Equal(t, "previews", event.Bucket)
}

func TestPreviewNotifyNeverFails(t *testing.T) {
	item, err := model.NewItem(model.GetExampleAnimePayload())
	require.NoError(t, err)

	notifier := &test.RecordingNotifier{Err: errors.New("broker down")}
	chCtx := newContext("output/anime/42.jpg")
	chCtx.Add(commands.GetItemParameterName(), item)
	commands.NewPreviewNotify("preview-notify", notifier, "previews", "Anime.News").Execute(chCtx)

	assert.False(t, chCtx.HasErrors())
	assert.Equal(t, "output/anime/42.jpg", chCtx.Get(cor.CtxOut))
}

func TestTempCleanupPassesInputThrough(t *testing.T) {
	file := filepath.Join(t.TempDir(), "x.jpg")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	chCtx := newContext("key")
	chCtx.AddTempFile(file)
	commands.NewTempCleanup("temp-cleanup").Execute(chCtx)

	assert.Equal(t, "key", chCtx.Get(cor.CtxOut))
	assert.NoFileExists(t, file)
}
