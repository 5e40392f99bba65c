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

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestLogHandlerUsesCloudLoggingKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLogHandler(&buf, slog.LevelDebug)).With("component", "test")

	logger.Warn("disk almost full", "free", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARNING", line["severity"])
	assert.Equal(t, "disk almost full", line["message"])
	assert.Equal(t, "test", line["component"])
	assert.Contains(t, line, "timestamp")
	assert.NotContains(t, line, "logging.googleapis.com/trace")
}

func TestLogHandlerAddsSpanContext(t *testing.T) {
	ctx := context.Background()
	shutdown, err := SetupOpenTelemetry(ctx, cloud.NewConfig())
	require.NoError(t, err)
	defer func() { assert.NoError(t, shutdown(ctx)) }()

	var buf bytes.Buffer
	logger := slog.New(NewLogHandler(&buf, slog.LevelInfo))

	spanCtx, span := otel.Tracer("telemetry-test").Start(ctx, "logged")
	logger.InfoContext(spanCtx, "inside span")
	span.End()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, span.SpanContext().TraceID().String(), line["logging.googleapis.com/trace"])
	assert.Equal(t, span.SpanContext().SpanID().String(), line["logging.googleapis.com/spanId"])
	assert.Equal(t, true, line["logging.googleapis.com/trace_sampled"])
}
