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
	"log/slog"

	"github.com/jaycherian/media-preview-service/internal/core/cor"
)

// TempCleanup releases every temporary file registered by earlier commands.
// Its input passes through unchanged. Removal failures are logged by the
// context and never fail the request.
type TempCleanup struct {
	cor.BaseCommand
}

// NewTempCleanup is the constructor for TempCleanup.
//
// Inputs:
//   - name: The command name used for spans and counters.
func NewTempCleanup(name string) *TempCleanup {
	return &TempCleanup{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute closes the context, which removes its temporary files.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *TempCleanup) Execute(context cor.Context) {
	files := len(context.GetTempFiles())
	if err := context.Close(); err != nil {
		if counter := c.GetErrorCounter(); counter != nil {
			counter.Add(context.GetContext(), 1)
		}
	} else {
		c.Succeed(context)
	}
	slog.DebugContext(context.GetContext(), "released temporary files", "count", files)
	context.Add(c.GetOutputParam(), context.Get(c.GetInputParam()))
}
