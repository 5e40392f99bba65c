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

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DevKindPrefix marks objects uploaded by a non-production deployment.
const DevKindPrefix = "dev_"

// GenerateRequest is the body of POST /generate. Payload is passed through
// to NewItem untouched.
type GenerateRequest struct {
	Payload json.RawMessage `json:"payload" binding:"required"`
	Cover   string          `json:"cover" binding:"required"`
}

// GenerateResponse is returned once the preview has been uploaded.
type GenerateResponse struct {
	ID     int64  `json:"id"`
	Result string `json:"result"`
	Type   Kind   `json:"type"`
}

// PreviewEvent is published after a successful upload.
type PreviewEvent struct {
	ID          int64     `json:"id"`
	Type        Kind      `json:"type"`
	Bucket      string    `json:"bucket"`
	Key         string    `json:"key"`
	GeneratedAt time.Time `json:"generated_at"`
	// Source is the APP_NAME of the service that generated the preview.
	Source string `json:"source"`
}

// CoverFileName is the local file name a cover is downloaded to. It always
// uses the bare kind.
func CoverFileName(kind Kind, id int64) string {
	return fmt.Sprintf("%s-%d.jpg", kind, id)
}

// StorageKind is the kind segment of an upload key: the bare kind in
// production, prefixed with DevKindPrefix otherwise.
func StorageKind(kind Kind, prod bool) string {
	if prod {
		return string(kind)
	}
	return DevKindPrefix + string(kind)
}

// UploadKey builds "<prefix>/<storage kind>/<id>.jpg".
func UploadKey(prefix string, kind Kind, id int64, prod bool) string {
	return fmt.Sprintf("%s/%s/%d.jpg", prefix, StorageKind(kind, prod), id)
}
