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

// Package services_test contains the test suite for the services package.
package services_test

import (
	"context"
	"errors"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/model"
	"github.com/jaycherian/media-preview-service/internal/core/services"
	"github.com/jaycherian/media-preview-service/internal/core/workflow"
	"github.com/jaycherian/media-preview-service/internal/render"
	test "github.com/jaycherian/media-preview-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zassert "github.com/zeebo/assert"
)

func newService(t *testing.T, store *test.MemoryStore, params render.Params) *services.PreviewService {
	t.Helper()
	config := test.GetConfig(t)
	runtime := test.GetRuntimeConfig(false)
	clients := &cloud.ServiceClients{Store: store}
	return &services.PreviewService{
		Workflow:      workflow.NewPreviewWorkflow(config, runtime, clients, &test.StubRenderer{}, params),
		Store:         store,
		Assets:        render.NewAssetCache(time.Minute),
		Params:        params,
		CoversBucket:  runtime.CoversBucketName,
		PreviewBucket: runtime.BucketName,
	}
}

func TestPreviewServiceGenerate(t *testing.T) {
	store := test.NewMemoryStore()
	store.Put("covers", "c.jpg", test.JPEG(t, 20, 30, color.White))
	svc := newService(t, store, render.Params{Width: 600, Height: 315, Proportion: 0.5})

	resp, err := svc.Generate(context.Background(), &model.GenerateRequest{
		Payload: model.GetExampleMangaPayload(),
		Cover:   "c.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "output/dev_manga/7.jpg", resp.Result)

	_, err = svc.Generate(context.Background(), &model.GenerateRequest{
		Payload: model.GetExampleMangaPayload(),
		Cover:   "missing.jpg",
	})
	assert.Error(t, err)
}

func TestCheckDependenciesHealthy(t *testing.T) {
	presentation := test.WriteAssets(t, t.TempDir(), "small")
	svc := newService(t, test.NewMemoryStore(), render.NewParams(presentation))

	checks := svc.CheckDependencies(context.Background())
	zassert.Equal(t, len(checks), 3)
	for _, check := range checks {
		zassert.Equal(t, check.Status, services.StatusOK)
		zassert.Equal(t, check.Error, "")
	}
	zassert.Equal(t, checks["covers_bucket"].Provider, "memory")
	zassert.True(t, services.Healthy(checks))
}

func TestCheckDependenciesReportsFailures(t *testing.T) {
	presentation := test.WriteAssets(t, t.TempDir(), "small")
	params := render.NewParams(presentation)
	params.TextFont = filepath.Join(t.TempDir(), "missing.ttf")

	store := test.NewMemoryStore()
	store.PingErr = errors.New("bucket unreachable")
	svc := newService(t, store, params)

	checks := svc.CheckDependencies(context.Background())
	assert.Equal(t, services.StatusError, checks["preview_bucket"].Status)
	assert.Equal(t, "bucket unreachable", checks["preview_bucket"].Error)
	assert.Equal(t, services.StatusError, checks["assets"].Status)
	assert.Contains(t, checks["assets"].Error, "missing.ttf")
	assert.False(t, services.Healthy(checks))
}

func TestCheckDependenciesWithoutAssets(t *testing.T) {
	svc := newService(t, test.NewMemoryStore(), render.Params{})
	svc.Assets = nil

	checks := svc.CheckDependencies(context.Background())
	_, ok := checks["assets"]
	assert.False(t, ok)
	assert.True(t, services.Healthy(checks))
}
