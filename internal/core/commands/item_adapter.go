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
	"errors"
	"fmt"
	"strings"

	"github.com/jaycherian/media-preview-service/internal/core/cor"
	"github.com/jaycherian/media-preview-service/internal/core/model"
)

// ErrMissingCover is reported when a request names no cover object.
var ErrMissingCover = errors.New("request has no cover key")

// ItemAdapter reads a *model.GenerateRequest and classifies its payload into
// a *model.Item, which becomes the output.
type ItemAdapter struct {
	cor.BaseCommand
}

// NewItemAdapter is the constructor for ItemAdapter.
//
// Inputs:
//   - name: The command name used for spans and counters.
//
// Outputs:
//   - *ItemAdapter: The command, reading cor.CtxIn and writing cor.CtxOut.
func NewItemAdapter(name string) *ItemAdapter {
	return &ItemAdapter{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute rejects a blank cover key, classifies the payload and stores the
// request and the item under their parameter names.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *ItemAdapter) Execute(context cor.Context) {
	req, ok := context.Get(c.GetInputParam()).(*model.GenerateRequest)
	if !ok {
		c.Fail(context, fmt.Errorf("unexpected input type %T", context.Get(c.GetInputParam())))
		return
	}
	if strings.TrimSpace(req.Cover) == "" {
		c.Fail(context, ErrMissingCover)
		return
	}

	item, err := model.NewItem(req.Payload)
	if err != nil {
		c.Fail(context, err)
		return
	}

	c.Succeed(context)
	context.Add(GetRequestParameterName(), req)
	context.Add(GetItemParameterName(), item)
	context.Add(c.GetOutputParam(), item)
}
