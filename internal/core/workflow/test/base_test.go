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

// Package workflow_test contains integration tests for the preview workflow.
// TestMain installs logging and in-process telemetry once for the package;
// every test builds its own configuration and fakes.
package workflow_test

import (
	"context"
	"os"
	"testing"

	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/telemetry"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const tName = "github.com/jaycherian/media-preview-service/tests/workflow"

var logger = otelslog.NewLogger(tName)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetry.SetupLogging()

	// Telemetry stays in-process: no exporters are installed when disabled.
	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cloud.NewConfig())
	if err != nil {
		panic(err)
	}

	logger.Info("completed test setup")
	exitCode := m.Run()

	if err := shutdown(ctx); err != nil {
		logger.Error("failed to shutdown telemetry", "error", err)
	}
	os.Exit(exitCode)
}
