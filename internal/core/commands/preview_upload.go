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

	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/cor"
	"github.com/jaycherian/media-preview-service/internal/core/model"
)

// PreviewUpload stores the rendered file under
// "<prefix>/<kind>/<id>.jpg", with the kind prefixed by "dev_" outside
// production. The key is the output.
type PreviewUpload struct {
	cor.BaseCommand
	store  cloud.BlobStore
	bucket string
	prefix string
	prod   bool
}

// NewPreviewUpload is the constructor for PreviewUpload.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - store: Object storage to write previews to.
//   - bucket: The previews bucket.
//   - prefix: The FILE_PREFIX the key starts with.
//   - prod: Whether the bare kind is used instead of "dev_<kind>".
func NewPreviewUpload(name string, store cloud.BlobStore, bucket, prefix string, prod bool) *PreviewUpload {
	return &PreviewUpload{
		BaseCommand: *cor.NewBaseCommand(name),
		store:       store,
		bucket:      bucket,
		prefix:      prefix,
		prod:        prod,
	}
}

func (c *PreviewUpload) Execute(context cor.Context) {
	path := context.Get(c.GetInputParam()).(string)
	item, ok := context.Get(GetItemParameterName()).(*model.Item)
	if !ok {
		c.Fail(context, fmt.Errorf("no item in context"))
		return
	}

	key := model.UploadKey(c.prefix, item.Kind(), item.ID(), c.prod)
	if err := c.store.Upload(context.GetContext(), c.bucket, key, path); err != nil {
		c.Fail(context, fmt.Errorf("failed to upload preview to %s/%s: %w", c.bucket, key, err))
		return
	}

	c.Succeed(context)
	slog.InfoContext(context.GetContext(), "uploaded preview", "bucket", c.bucket, "key", key)
	context.Add(GetUploadKeyParameterName(), key)
	context.Add(c.GetOutputParam(), key)
}
