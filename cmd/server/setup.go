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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/services"
	"github.com/jaycherian/media-preview-service/internal/core/workflow"
	"github.com/jaycherian/media-preview-service/internal/render"
)

// StateManager holds the components built once at startup.
type StateManager struct {
	config         *cloud.Config
	runtime        *cloud.RuntimeConfig
	cloud          *cloud.ServiceClients
	previewService *services.PreviewService
}

var state = &StateManager{}

// SetupOS points the configuration loader at the configs directory unless
// the environment already chose one.
func SetupOS() error {
	if _, ok := os.LookupEnv(cloud.EnvConfigFilePrefix); !ok {
		if err := os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if _, ok := os.LookupEnv(cloud.EnvConfigRuntime); !ok {
		return os.Setenv(cloud.EnvConfigRuntime, cloud.DefaultRuntime)
	}
	return nil
}

func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup os: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load configuration: %v\n", err)
		}
		state.config = config
	}
	return state.config
}

// InitState loads the runtime and presentation configuration, connects the
// cloud clients and assembles the preview service. Any failure here stops
// the server from starting.
func InitState(ctx context.Context) error {
	config := GetConfig()

	runtime, err := cloud.LoadRuntimeConfig()
	if err != nil {
		return err
	}
	state.runtime = runtime
	slog.Info("Runtime configuration loaded", "runtime", runtime)

	presentation, err := cloud.LoadPresentationConfig(config.Application.PresentationConfig)
	if err != nil {
		return err
	}
	params := render.NewParams(presentation)
	slog.Info("Presentation configuration loaded",
		"size", presentation.Size,
		"width", params.Width,
		"height", params.Height,
		"assets", presentation.AssetPaths())

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config, runtime)
	if err != nil {
		return fmt.Errorf("failed to create cloud clients: %w", err)
	}
	state.cloud = cloudClients

	assets := render.NewAssetCache(config.AssetCacheTTL())
	if err := assets.Check(ctx, params); err != nil {
		// Rendering reports the same error per request; the server still starts.
		slog.Warn("Presentation assets could not be preloaded", "error", err)
	}

	renderer := render.NewQuotaAwareRenderer(
		render.NewCompositor(assets, config.Rendering.JpegQuality),
		config.Rendering.RateLimit,
		config.Rendering.Burst)

	state.previewService = &services.PreviewService{
		Workflow:      workflow.NewPreviewWorkflow(config, runtime, cloudClients, renderer, params),
		Store:         cloudClients.Store,
		Assets:        assets,
		Params:        params,
		CoversBucket:  runtime.CoversBucketName,
		PreviewBucket: runtime.BucketName,
	}
	return nil
}
