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
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/cor"
	"github.com/jaycherian/media-preview-service/internal/core/model"
)

// sniffLength is how much of the cover is read to identify its type.
const sniffLength = 261

// CoverDownload creates the request's working directory and downloads the
// cover named by the request into it as "<kind>-<id>.jpg". The downloaded
// file must be an image. The item, with CoverPath set, is the output.
type CoverDownload struct {
	cor.BaseCommand
	store   cloud.BlobStore
	bucket  string
	workDir string
}

// NewCoverDownload is the constructor for CoverDownload.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - store: Object storage to read covers from.
//   - bucket: The covers bucket.
//   - workDir: Parent directory of the per-request directories.
func NewCoverDownload(name string, store cloud.BlobStore, bucket, workDir string) *CoverDownload {
	return &CoverDownload{
		BaseCommand: *cor.NewBaseCommand(name),
		store:       store,
		bucket:      bucket,
		workDir:     workDir,
	}
}

func (c *CoverDownload) Execute(context cor.Context) {
	item := context.Get(c.GetInputParam()).(*model.Item)
	req, ok := context.Get(GetRequestParameterName()).(*model.GenerateRequest)
	if !ok {
		c.Fail(context, fmt.Errorf("no request in context"))
		return
	}

	dir := filepath.Join(c.workDir, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.Fail(context, fmt.Errorf("could not create request directory: %w", err))
		return
	}
	context.AddTempFile(dir)
	context.Add(GetRequestDirParameterName(), dir)

	dst := filepath.Join(dir, model.CoverFileName(item.Kind(), item.ID()))
	context.AddTempFile(dst)
	if err := c.store.Download(context.GetContext(), c.bucket, req.Cover, dst); err != nil {
		c.Fail(context, fmt.Errorf("failed to download cover %s/%s: %w", c.bucket, req.Cover, err))
		return
	}

	if err := checkImage(dst); err != nil {
		c.Fail(context, err)
		return
	}

	item.CoverPath = dst
	c.Succeed(context)
	slog.DebugContext(context.GetContext(), "downloaded cover", "bucket", c.bucket, "key", req.Cover, "file", dst)
	context.Add(c.GetOutputParam(), item)
}

func checkImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, sniffLength)
	n, _ := f.Read(head)
	if !filetype.IsImage(head[:n]) {
		return fmt.Errorf("cover %s is not an image", filepath.Base(path))
	}
	return nil
}
