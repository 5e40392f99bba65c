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
	"log/slog"
	"time"

	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/cor"
	"github.com/jaycherian/media-preview-service/internal/core/model"
)

// PreviewNotify publishes a model.PreviewEvent for the uploaded key. A
// failed publish is logged and counted but does not fail the request. The
// key passes through as the output.
type PreviewNotify struct {
	cor.BaseCommand
	notifier cloud.Notifier
	bucket   string
	source   string
}

// NewPreviewNotify is the constructor for PreviewNotify.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - notifier: The event publisher.
//   - bucket: The previews bucket the key lives in.
//   - source: The application name stamped on every event.
//
// Outputs:
//   - *PreviewNotify: The command, passing the upload key through.
func NewPreviewNotify(name string, notifier cloud.Notifier, bucket, source string) *PreviewNotify {
	return &PreviewNotify{
		BaseCommand: *cor.NewBaseCommand(name),
		notifier:    notifier,
		bucket:      bucket,
		source:      source,
	}
}

// Execute publishes the event keyed by "<kind>-<id>".
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *PreviewNotify) Execute(context cor.Context) {
	key := context.Get(c.GetInputParam()).(string)
	item := context.Get(GetItemParameterName()).(*model.Item)

	event := model.PreviewEvent{
		ID:          item.ID(),
		Type:        item.Kind(),
		Bucket:      c.bucket,
		Key:         key,
		GeneratedAt: time.Now().UTC(),
		Source:      c.source,
	}
	eventKey := fmt.Sprintf("%s-%d", item.Kind(), item.ID())
	if err := c.notifier.Publish(context.GetContext(), eventKey, event); err != nil {
		if counter := c.GetErrorCounter(); counter != nil {
			counter.Add(context.GetContext(), 1)
		}
		slog.WarnContext(context.GetContext(), "failed to publish preview event", "key", eventKey, "error", err)
	} else {
		c.Succeed(context)
	}
	context.Add(c.GetOutputParam(), key)
}
