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

package cor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// BaseContext is the default Context. It is owned by a single request and is
// not safe for concurrent use.
type BaseContext struct {
	data      map[string]interface{}
	errs      []error
	tempFiles []string
	context   context.Context
}

// NewBaseContext returns an empty Context bound to context.Background.
func NewBaseContext() Context {
	return &BaseContext{
		data:      make(map[string]interface{}),
		errs:      make([]error, 0),
		tempFiles: make([]string, 0),
		context:   context.Background(),
	}
}

func (c *BaseContext) SetContext(ctx context.Context) {
	c.context = ctx
}

func (c *BaseContext) GetContext() context.Context {
	return c.context
}

func (c *BaseContext) Add(key string, value interface{}) Context {
	c.data[key] = value
	return c
}

func (c *BaseContext) Get(key string) interface{} {
	return c.data[key]
}

func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

// AddError wraps err with the command name so the joined error reads as a
// trail of failed steps.
func (c *BaseContext) AddError(name string, err error) {
	if err == nil {
		return
	}
	c.errs = append(c.errs, fmt.Errorf("%s: %w", name, err))
}

func (c *BaseContext) GetErrors() []error {
	return c.errs
}

func (c *BaseContext) HasErrors() bool {
	return len(c.errs) > 0
}

func (c *BaseContext) Err() error {
	return errors.Join(c.errs...)
}

func (c *BaseContext) AddTempFile(path string) {
	c.tempFiles = append(c.tempFiles, path)
}

func (c *BaseContext) GetTempFiles() []string {
	return c.tempFiles
}

// Close removes registered paths newest first, so files go before the
// directories that contain them.
func (c *BaseContext) Close() error {
	var err error
	for i := len(c.tempFiles) - 1; i >= 0; i-- {
		path := c.tempFiles[i]
		if rmErr := os.RemoveAll(path); rmErr != nil {
			slog.Warn("failed to remove temporary file", "path", path, "error", rmErr)
			err = errors.Join(err, rmErr)
		}
	}
	c.tempFiles = c.tempFiles[:0]
	return err
}
