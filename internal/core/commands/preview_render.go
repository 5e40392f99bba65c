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

package commands

import (
	"fmt"
	"path/filepath"

	"github.com/jaycherian/media-preview-service/internal/core/cor"
	"github.com/jaycherian/media-preview-service/internal/core/model"
	"github.com/jaycherian/media-preview-service/internal/render"
)

// PreviewRender hands the item and its downloaded cover to the renderer and
// outputs the path of the rendered file. Rendering happens in the "output"
// sub directory of the request directory.
type PreviewRender struct {
	cor.BaseCommand
	renderer render.Renderer
	params   render.Params
}

// NewPreviewRender is the constructor for PreviewRender.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - renderer: The delegate that draws the preview.
//   - params: Canvas size and cover proportion.
//
// Outputs:
//   - *PreviewRender: The command, reading the item and writing the output path.
func NewPreviewRender(name string, renderer render.Renderer, params render.Params) *PreviewRender {
	return &PreviewRender{
		BaseCommand: *cor.NewBaseCommand(name),
		renderer:    renderer,
		params:      params,
	}
}

// Execute renders into the request's output directory and registers both the
// directory and the rendered file as temporary.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *PreviewRender) Execute(context cor.Context) {
	item := context.Get(c.GetInputParam()).(*model.Item)
	dir, ok := context.Get(GetRequestDirParameterName()).(string)
	if !ok || dir == "" {
		c.Fail(context, fmt.Errorf("no request directory in context"))
		return
	}

	outDir := filepath.Join(dir, OutputDirName)
	context.AddTempFile(outDir)

	out, err := c.renderer.Render(context.GetContext(), item, outDir, c.params)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to render preview for %s %d: %w", item.Kind(), item.ID(), err))
		return
	}
	context.AddTempFile(out)

	c.Succeed(context)
	context.Add(c.GetOutputParam(), out)
}
