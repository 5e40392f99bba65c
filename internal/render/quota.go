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

package render

import (
	"context"
	"fmt"

	"github.com/jaycherian/media-preview-service/internal/core/model"
	"golang.org/x/time/rate"
)

// QuotaAwareRenderer bounds how many renders start per second. Callers wait
// for a token on their own context, so a cancelled request stops waiting.
type QuotaAwareRenderer struct {
	next    Renderer
	limiter *rate.Limiter
}

// NewQuotaAwareRenderer wraps next with a token bucket of rendersPerSecond
// and burst. A non-positive rate returns next unchanged.
func NewQuotaAwareRenderer(next Renderer, rendersPerSecond float64, burst int) Renderer {
	if rendersPerSecond <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &QuotaAwareRenderer{next: next, limiter: rate.NewLimiter(rate.Limit(rendersPerSecond), burst)}
}

func (q *QuotaAwareRenderer) Render(ctx context.Context, item *model.Item, outDir string, params Params) (string, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("render quota wait: %w", err)
	}
	return q.next.Render(ctx, item, outDir, params)
}
