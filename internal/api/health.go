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

package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/media-preview-service/internal/core/services"
)

// Healz always answers {"message":"OK"}.
func Healz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}

// Ready answers {"message":"Ready"} without touching any dependency. With
// ?deep=true it also probes storage and assets and answers 503 when one of
// them fails.
func (a *App) Ready(c *gin.Context) {
	if c.Query("deep") != "true" || a.Service == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Ready"})
		return
	}

	checks := a.Service.CheckDependencies(c.Request.Context())
	if !services.Healthy(checks) {
		slog.WarnContext(c.Request.Context(), "readiness check degraded", "checks", checks)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Degraded", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ready", "checks": checks})
}
