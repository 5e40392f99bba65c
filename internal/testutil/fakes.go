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

package test

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/model"
	"github.com/jaycherian/media-preview-service/internal/render"
)

// ObjectRef names an object in a bucket.
type ObjectRef struct {
	Bucket string
	Key    string
}

// MemoryStore is an in-memory cloud.BlobStore. Setting DownloadErr,
// UploadErr or PingErr makes the matching operation fail.
type MemoryStore struct {
	mu          sync.Mutex
	objects     map[ObjectRef][]byte
	Downloads   []ObjectRef
	Uploads     []ObjectRef
	DownloadErr error
	UploadErr   error
	PingErr     error
}

var _ cloud.BlobStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[ObjectRef][]byte)}
}

// Put seeds an object.
func (m *MemoryStore) Put(bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[ObjectRef{bucket, key}] = data
}

// Object returns a stored object.
func (m *MemoryStore) Object(bucket, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[ObjectRef{bucket, key}]
	return data, ok
}

func (m *MemoryStore) Provider() string { return "memory" }

func (m *MemoryStore) Download(ctx context.Context, bucket, key, dst string) error {
	m.mu.Lock()
	m.Downloads = append(m.Downloads, ObjectRef{bucket, key})
	data, ok := m.objects[ObjectRef{bucket, key}]
	failure := m.DownloadErr
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if failure != nil {
		return failure
	}
	if !ok {
		return fmt.Errorf("object %s/%s not found", bucket, key)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func (m *MemoryStore) Upload(ctx context.Context, bucket, key, src string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads = append(m.Uploads, ObjectRef{bucket, key})
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.objects[ObjectRef{bucket, key}] = data
	return nil
}

func (m *MemoryStore) Ping(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PingErr
}

func (m *MemoryStore) Close() error { return nil }

// RenderCall records one StubRenderer invocation.
type RenderCall struct {
	ItemID    int64
	Kind      model.Kind
	CoverPath string
	OutDir    string
	Params    render.Params
}

// StubRenderer writes a small JPEG instead of composing a preview. Err
// makes every call fail.
type StubRenderer struct {
	mu    sync.Mutex
	Calls []RenderCall
	Err   error
}

func (s *StubRenderer) Render(ctx context.Context, item *model.Item, outDir string, params render.Params) (string, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, RenderCall{
		ItemID:    item.ID(),
		Kind:      item.Kind(),
		CoverPath: item.CoverPath,
		OutDir:    outDir,
		Params:    params,
	})
	failure := s.Err
	s.mu.Unlock()

	if failure != nil {
		return "", failure
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := os.Stat(item.CoverPath); err != nil {
		return "", fmt.Errorf("cover missing: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(outDir, fmt.Sprintf("%s-%d.jpg", item.Kind(), item.ID()))
	return out, imaging.Save(imaging.New(8, 8, color.White), out)
}

// LastCall returns the most recent render call.
func (s *StubRenderer) LastCall() RenderCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls[len(s.Calls)-1]
}

// PublishedEvent is one RecordingNotifier message.
type PublishedEvent struct {
	Key   string
	Event any
}

// RecordingNotifier keeps every published event in memory.
type RecordingNotifier struct {
	mu     sync.Mutex
	Events []PublishedEvent
	Err    error
}

func (r *RecordingNotifier) Publish(_ context.Context, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, PublishedEvent{Key: key, Event: event})
	return nil
}

func (r *RecordingNotifier) Close() error { return nil }
