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

// Package api contains the HTTP route definitions for the server.
//
// Routes:
//   - POST /generate: renders and uploads a preview for a media item.
//   - GET /healz: liveness, always {"message":"OK"}.
//   - GET /ready: readiness, {"message":"Ready"}; ?deep=true also probes
//     storage and presentation assets.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jaycherian/media-preview-service/internal/core/services"
)

// App holds the dependencies shared by every handler. It is built once at
// startup and never mutated afterwards.
type App struct {
	Name    string                   // Service name reported to tracing.
	Service *services.PreviewService // May be nil, in which case only the health routes work.
}

// NewRouter builds the gin engine with tracing, CORS and request ids
// installed, and registers the application routes.
func NewRouter(app *App) *gin.Engine {
	r := gin.Default()

	r.Use(otelgin.Middleware(app.Name))
	r.Use(cors.Default())
	r.Use(RequestID())

	app.Register(r)
	return r
}

// Register adds the application routes to r.
func (a *App) Register(r gin.IRoutes) {
	r.POST("/generate", a.Generate)
	r.GET("/healz", Healz)
	r.GET("/ready", a.Ready)
}
