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

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/media-preview-service/internal/api"
	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/model"
	"github.com/jaycherian/media-preview-service/internal/core/services"
	"github.com/jaycherian/media-preview-service/internal/core/workflow"
	"github.com/jaycherian/media-preview-service/internal/render"
	test "github.com/jaycherian/media-preview-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type server struct {
	config   *cloud.Config
	store    *test.MemoryStore
	renderer *test.StubRenderer
	router   *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	s := &server{
		config:   test.GetConfig(t),
		store:    test.NewMemoryStore(),
		renderer: &test.StubRenderer{},
	}
	s.store.Put("covers", "cov1.jpg", test.JPEG(t, 40, 60, color.Black))

	runtime := test.GetRuntimeConfig(false)
	params := render.Params{Width: 600, Height: 315, Proportion: 0.5}
	clients := &cloud.ServiceClients{Store: s.store}
	s.router = api.NewRouter(&api.App{
		Name: "media-preview-test",
		Service: &services.PreviewService{
			Workflow:      workflow.NewPreviewWorkflow(s.config, runtime, clients, s.renderer, params),
			Store:         s.store,
			Params:        params,
			CoversBucket:  runtime.CoversBucketName,
			PreviewBucket: runtime.BucketName,
		},
	})
	return s
}

func do(router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthRoutesReturnFixedPayloads(t *testing.T) {
	s := newServer(t)
	// Storage being down does not change the shallow answers.
	s.store.PingErr = errors.New("bucket unreachable")

	w := do(s.router, http.MethodGet, "/healz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"OK"}`, w.Body.String())

	w = do(s.router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Ready"}`, w.Body.String())

	bare := api.NewRouter(&api.App{Name: "bare"})
	assert.JSONEq(t, `{"message":"OK"}`, do(bare, http.MethodGet, "/healz", nil).Body.String())
	assert.JSONEq(t, `{"message":"Ready"}`, do(bare, http.MethodGet, "/ready?deep=true", nil).Body.String())
}

func TestDeepReadiness(t *testing.T) {
	s := newServer(t)

	w := do(s.router, http.MethodGet, "/ready?deep=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Ready", body["message"])
	assert.Contains(t, body["checks"], "covers_bucket")

	s.store.PingErr = errors.New("bucket unreachable")
	w = do(s.router, http.MethodGet, "/ready?deep=true", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	body = decode(t, w)
	assert.Equal(t, "Degraded", body["message"])
	check := body["checks"].(map[string]any)["preview_bucket"].(map[string]any)
	assert.Equal(t, services.StatusError, check["status"])
	assert.Equal(t, "bucket unreachable", check["error"])
}

func TestGenerate(t *testing.T) {
	s := newServer(t)

	w := do(s.router, http.MethodPost, "/generate", test.GetGenerateRequestBody(t, model.GetExampleAnimePayload(), "cov1.jpg"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":42,"result":"output/dev_anime/42.jpg","type":"anime"}`, w.Body.String())

	_, ok := s.store.Object("previews", "output/dev_anime/42.jpg")
	assert.True(t, ok)
	assert.Equal(t, 0.5, s.renderer.LastCall().Params.Proportion)
	assert.NotEmpty(t, w.Header().Get(api.RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healz", nil)
	req.Header.Set(api.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(api.RequestIDHeader))
}

func TestGenerateBadRequests(t *testing.T) {
	tests := map[string][]byte{
		"not json":      []byte(`{"payload":`),
		"no payload":    []byte(`{"cover":"cov1.jpg"}`),
		"no cover":      []byte(`{"payload":{"id":1,"episodes":1}}`),
		"blank cover":   test.GetGenerateRequestBody(t, model.GetExampleAnimePayload(), "  "),
		"unknown kind":  test.GetGenerateRequestBody(t, json.RawMessage(`{"id":1,"name":"x"}`), "cov1.jpg"),
		"ambiguous":     test.GetGenerateRequestBody(t, json.RawMessage(`{"id":1,"episodes":1,"volumes":2}`), "cov1.jpg"),
		"missing id":    test.GetGenerateRequestBody(t, json.RawMessage(`{"volumes":2}`), "cov1.jpg"),
		"wrong id type": test.GetGenerateRequestBody(t, json.RawMessage(`{"id":"x","volumes":2}`), "cov1.jpg"),
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			s := newServer(t)
			w := do(s.router, http.MethodPost, "/generate", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
			assert.Empty(t, s.store.Downloads)
		})
	}
}

func TestGenerateInternalFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := map[string]struct {
		cover string
		setup func(s *server)
	}{
		"missing cover object": {cover: "absent.jpg", setup: func(*server) {}},
		"download fails":       {cover: "cov1.jpg", setup: func(s *server) { s.store.DownloadErr = boom }},
		"render fails":         {cover: "cov1.jpg", setup: func(s *server) { s.renderer.Err = boom }},
		"upload fails":         {cover: "cov1.jpg", setup: func(s *server) { s.store.UploadErr = boom }},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := newServer(t)
			tc.setup(s)

			w := do(s.router, http.MethodPost, "/generate", test.GetGenerateRequestBody(t, model.GetExampleAnimePayload(), tc.cover))
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.NotEmpty(t, decode(t, w)["error"])

			entries, err := os.ReadDir(s.config.Application.WorkDir)
			if err == nil {
				assert.Empty(t, entries)
			}
		})
	}
}

func TestGenerateWithCompositorAndLocalStore(t *testing.T) {
	config := test.GetConfig(t)
	runtime := test.GetRuntimeConfig(true)
	test.WriteCover(t, filepath.Join(config.Storage.LocalRoot, "covers", "cov1.jpg"))
	require.NoError(t, os.MkdirAll(filepath.Join(config.Storage.LocalRoot, "previews"), 0o755))

	clients, err := cloud.NewCloudServiceClients(context.Background(), config, runtime)
	require.NoError(t, err)
	defer clients.Close()

	presentation := test.WriteAssets(t, t.TempDir(), "big")
	params := render.NewParams(presentation)
	assets := render.NewAssetCache(time.Minute)
	renderer := render.NewQuotaAwareRenderer(render.NewCompositor(assets, 90), 0, 1)

	router := api.NewRouter(&api.App{
		Name: "media-preview-test",
		Service: &services.PreviewService{
			Workflow:      workflow.NewPreviewWorkflow(config, runtime, clients, renderer, params),
			Store:         clients.Store,
			Assets:        assets,
			Params:        params,
			CoversBucket:  runtime.CoversBucketName,
			PreviewBucket: runtime.BucketName,
		},
	})

	w := do(router, http.MethodPost, "/generate", test.GetGenerateRequestBody(t, model.GetExampleAnimePayload(), "cov1.jpg"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":42,"result":"output/anime/42.jpg","type":"anime"}`, w.Body.String())

	cfg := test.DecodeConfig(t, filepath.Join(config.Storage.LocalRoot, "previews", "output", "anime", "42.jpg"))
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 630, cfg.Height)

	w = do(router, http.MethodGet, "/ready?deep=true", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
