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

package cloud

import (
	"context"
	"errors"
)

// ServiceClients groups the long-lived infrastructure clients shared by all
// requests.
type ServiceClients struct {
	Store    BlobStore // Object storage for covers and previews.
	Notifier Notifier  // Publisher for "preview generated" events.
}

// Close releases every client, returning the joined errors.
func (c *ServiceClients) Close() error {
	var errs []error
	if c.Notifier != nil {
		errs = append(errs, c.Notifier.Close())
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	return errors.Join(errs...)
}

// NewCloudServiceClients initializes the object store and the notifier
// described by config and runtime.
//
// Inputs:
//   - ctx: The context for client initialization.
//   - config: The application configuration.
//   - runtime: The environment configuration holding storage credentials.
//
// Outputs:
//   - *ServiceClients: The initialized clients.
//   - error: The first initialization failure; clients created before it are closed.
func NewCloudServiceClients(ctx context.Context, config *Config, runtime *RuntimeConfig) (*ServiceClients, error) {
	store, err := NewBlobStore(ctx, config, runtime)
	if err != nil {
		return nil, err
	}

	notifier, err := NewNotifier(ctx, config)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &ServiceClients{Store: store, Notifier: notifier}, nil
}
