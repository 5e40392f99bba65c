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

// Package workflow assembles commands into the request pipelines the service
// runs.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/commands"
	"github.com/jaycherian/media-preview-service/internal/core/cor"
	"github.com/jaycherian/media-preview-service/internal/core/model"
	"github.com/jaycherian/media-preview-service/internal/render"
)

// PreviewWorkflow turns a generate request into an uploaded preview:
//
//	item-adapter -> cover-download -> preview-render -> preview-upload
//	  -> [preview-notify] -> temp-cleanup
//
// The notify step is present only when a notifier is configured.
type PreviewWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

// NewPreviewWorkflow is the constructor for PreviewWorkflow.
//
// Inputs:
//   - config: The application configuration (work directory, notifications).
//   - runtime: The environment configuration (buckets, prefix, production flag).
//   - serviceClients: The object store and notifier.
//   - renderer: The rendering delegate.
//   - params: The render parameters derived from the presentation config.
//
// Outputs:
//   - *PreviewWorkflow: A workflow ready to execute.
func NewPreviewWorkflow(
	config *cloud.Config,
	runtime *cloud.RuntimeConfig,
	serviceClients *cloud.ServiceClients,
	renderer render.Renderer,
	params render.Params) *PreviewWorkflow {

	chain := cor.NewBaseChain("preview-workflow")
	chain.AddCommand(commands.NewItemAdapter("item-adapter"))
	chain.AddCommand(commands.NewCoverDownload("cover-download", serviceClients.Store, runtime.CoversBucketName, config.Application.WorkDir))
	chain.AddCommand(commands.NewPreviewRender("preview-render", renderer, params))
	chain.AddCommand(commands.NewPreviewUpload("preview-upload", serviceClients.Store, runtime.BucketName, runtime.FilePrefix, runtime.Prod))
	if serviceClients.Notifier != nil && config.Notifications.Provider != cloud.NotificationProviderNone {
		chain.AddCommand(commands.NewPreviewNotify("preview-notify", serviceClients.Notifier, runtime.BucketName, runtime.AppName))
	}
	chain.AddCommand(commands.NewTempCleanup("temp-cleanup"))

	return &PreviewWorkflow{
		BaseCommand: *cor.NewBaseCommand("preview-workflow"),
		chain:       chain,
	}
}

func (w *PreviewWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Generate runs the workflow for req and builds the response. Temporary
// files are released before it returns, whether or not the run succeeded.
func (w *PreviewWorkflow) Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error) {
	chCtx := cor.NewBaseContext()
	chCtx.SetContext(ctx)
	defer func() {
		if err := chCtx.Close(); err != nil {
			slog.WarnContext(ctx, "failed to release temporary files", "error", err)
		}
	}()

	chCtx.Add(cor.CtxIn, req)
	w.Execute(chCtx)
	if chCtx.HasErrors() {
		return nil, chCtx.Err()
	}

	item, ok := chCtx.Get(commands.GetItemParameterName()).(*model.Item)
	if !ok {
		return nil, fmt.Errorf("workflow finished without an item")
	}
	key, ok := chCtx.Get(commands.GetUploadKeyParameterName()).(string)
	if !ok {
		return nil, fmt.Errorf("workflow finished without an upload key")
	}
	return &model.GenerateResponse{ID: item.ID(), Result: key, Type: item.Kind()}, nil
}

// IsBadRequest reports whether err was caused by the request itself rather
// than by storage or rendering.
func IsBadRequest(err error) bool {
	return errors.Is(err, model.ErrUnknownKind) ||
		errors.Is(err, model.ErrMissingID) ||
		errors.Is(err, model.ErrInvalidPayload) ||
		errors.Is(err, commands.ErrMissingCover)
}
