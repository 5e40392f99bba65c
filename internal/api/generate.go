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

	"github.com/jaycherian/media-preview-service/internal/core/model"
	"github.com/jaycherian/media-preview-service/internal/core/workflow"
)

// Generate handles POST /generate.
//
// A body that does not decode, or a payload the item adapter rejects, is a
// 400. Storage and rendering failures are a 500. Both carry {"error": ...}.
func (a *App) Generate(c *gin.Context) {
	if a.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "preview service is not configured"})
		return
	}

	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.Service.Generate(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if workflow.IsBadRequest(err) {
			status = http.StatusBadRequest
		} else {
			slog.ErrorContext(c.Request.Context(), "generate failed",
				"request_id", c.GetString(requestIDKey),
				"error", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
