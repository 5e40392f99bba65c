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

// Package cloud holds the service's configuration and its adapters to
// external infrastructure: object storage providers and event publishers.
//
// This file defines the application configuration, loaded from hierarchical
// TOML files (see LoadConfig).
//
// Structs:
//   - Application: Server and process level settings.
//   - Storage: Which BlobStore provider to build and how.
//   - Telemetry: Whether OpenTelemetry exporters are installed.
//   - Notifications: Optional "preview generated" event publishing.
//   - Rendering: Renderer throughput, asset caching and output quality.
//   - Config: The top-level struct that aggregates all of the above.
package cloud

import "time"

// Storage provider names accepted in storage.provider.
const (
	StorageProviderS3      = "s3"
	StorageProviderGCS     = "gcs"
	StorageProviderLocalFS = "localfs"
)

// Notification provider names accepted in notifications.provider.
const (
	NotificationProviderNone   = ""
	NotificationProviderPubSub = "pubsub"
	NotificationProviderKafka  = "kafka"
)

type Application struct {
	Name                   string `toml:"name"`                     // The name reported by logs and telemetry.
	Port                   string `toml:"port"`                     // The HTTP listen port.
	Mode                   string `toml:"mode"`                     // The gin mode (debug, release, test).
	WorkDir                string `toml:"work_dir"`                 // Parent directory of per-request temp directories.
	PresentationConfig     string `toml:"presentation_config"`      // Path to the presentation YAML file.
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"` // Grace period for in-flight requests on shutdown.
}

type Storage struct {
	Provider     string `toml:"provider"`       // One of s3, gcs, localfs.
	Region       string `toml:"region"`         // S3 signing region.
	UsePathStyle bool   `toml:"use_path_style"` // Path-style addressing, required by most S3-compatible servers.
	LocalRoot    string `toml:"local_root"`     // Root directory for the localfs provider; buckets are sub directories.
}

type Telemetry struct {
	Enabled         bool   `toml:"enabled"`           // Install the GCP trace and metric exporters.
	GoogleProjectId string `toml:"google_project_id"` // Project the exporters write to.
}

type Notifications struct {
	Provider  string   `toml:"provider"`   // Empty disables notifications; otherwise pubsub or kafka.
	ProjectId string   `toml:"project_id"` // Pub/Sub project.
	Topic     string   `toml:"topic"`      // Pub/Sub topic or Kafka topic.
	Brokers   []string `toml:"brokers"`    // Kafka bootstrap brokers.
}

type Rendering struct {
	RateLimit            float64 `toml:"rate_limit"`              // Renders per second; 0 disables limiting.
	Burst                int     `toml:"burst"`                   // Token bucket size.
	AssetCacheTTLSeconds int     `toml:"asset_cache_ttl_seconds"` // How long decoded images and fonts stay cached.
	JpegQuality          int     `toml:"jpeg_quality"`            // Output JPEG quality (1-100).
}

type Config struct {
	Application   Application   `toml:"application"`
	Storage       Storage       `toml:"storage"`
	Telemetry     Telemetry     `toml:"telemetry"`
	Notifications Notifications `toml:"notifications"`
	Rendering     Rendering     `toml:"rendering"`
}

// NewConfig returns a Config populated with the defaults used when a key is
// absent from every TOML file.
func NewConfig() *Config {
	return &Config{
		Application: Application{
			Name:                   "media-preview-service",
			Port:                   "8080",
			Mode:                   "release",
			WorkDir:                "tmp",
			PresentationConfig:     "config.yaml",
			ShutdownTimeoutSeconds: 10,
		},
		Storage: Storage{
			Provider:     StorageProviderS3,
			Region:       "us-east-1",
			UsePathStyle: true,
			LocalRoot:    "data",
		},
		Rendering: Rendering{
			Burst:                1,
			AssetCacheTTLSeconds: 600,
			JpegQuality:          90,
		},
	}
}

// ShutdownTimeout is the configured grace period as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Application.ShutdownTimeoutSeconds) * time.Second
}

// AssetCacheTTL is the configured asset lifetime as a duration.
func (c *Config) AssetCacheTTL() time.Duration {
	return time.Duration(c.Rendering.AssetCacheTTLSeconds) * time.Second
}
