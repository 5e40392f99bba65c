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

// Package services contains the business logic the HTTP layer calls into.
// PreviewService wraps the preview workflow and reports the health of the
// dependencies a request needs.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/model"
	"github.com/jaycherian/media-preview-service/internal/core/workflow"
	"github.com/jaycherian/media-preview-service/internal/render"
)

const (
	StatusOK    = "ok"
	StatusError = "error"

	checkTimeout = 5 * time.Second
)

// DependencyCheck is the outcome of probing one dependency.
type DependencyCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Provider  string `json:"provider,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// PreviewService generates previews and checks the dependencies needed to
// do so.
type PreviewService struct {
	Workflow      *workflow.PreviewWorkflow // The generate pipeline.
	Store         cloud.BlobStore           // Object storage for covers and previews.
	Assets        *render.AssetCache        // Shared decoded presentation assets. May be nil.
	Params        render.Params             // The render parameters the assets are checked against.
	CoversBucket  string                    // The bucket covers are read from.
	PreviewBucket string                    // The bucket previews are written to.
}

// Generate renders and uploads the preview for req.
func (s *PreviewService) Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error) {
	start := time.Now()
	resp, err := s.Workflow.Generate(ctx, req)
	if err != nil {
		slog.WarnContext(ctx, "preview generation failed", "cover", req.Cover, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "preview generated",
		"id", resp.ID,
		"type", resp.Type,
		"result", resp.Result,
		"duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}

// CheckDependencies probes both buckets and the presentation assets. The
// result is keyed by dependency name.
func (s *PreviewService) CheckDependencies(ctx context.Context) map[string]DependencyCheck {
	checks := map[string]DependencyCheck{
		"covers_bucket":  s.checkBucket(ctx, s.CoversBucket),
		"preview_bucket": s.checkBucket(ctx, s.PreviewBucket),
	}
	if s.Assets != nil {
		checks["assets"] = s.checkAssets(ctx)
	}
	return checks
}

// Healthy reports whether every check passed.
func Healthy(checks map[string]DependencyCheck) bool {
	for _, check := range checks {
		if check.Status != StatusOK {
			return false
		}
	}
	return true
}

func (s *PreviewService) checkBucket(ctx context.Context, bucket string) DependencyCheck {
	start := time.Now()
	result := DependencyCheck{Status: StatusOK, Provider: s.Store.Provider()}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := s.Store.Ping(checkCtx, bucket); err != nil {
		result.Status = StatusError
		result.Error = err.Error()
	}
	result.LatencyMs = time.Since(start).Milliseconds()
	return result
}

func (s *PreviewService) checkAssets(ctx context.Context) DependencyCheck {
	start := time.Now()
	result := DependencyCheck{Status: StatusOK}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := s.Assets.Check(checkCtx, s.Params); err != nil {
		result.Status = StatusError
		result.Error = err.Error()
	}
	result.LatencyMs = time.Since(start).Milliseconds()
	return result
}
