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
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// RuntimeConfig is the deployment level configuration read from the
// environment. It names the buckets, the key prefix and the S3 credentials.
type RuntimeConfig struct {
	Production       string `env:"PRODUCTION" env-default:"false"`
	AppName          string `env:"APP_NAME" env-default:"Anime.News"`
	BucketName       string `env:"BUCKET_NAME" env-default:"previews"`
	CoversBucketName string `env:"COVERS_BUCKET_NAME" env-default:"covers"`
	FilePrefix       string `env:"FILE_PREFIX" env-default:"output"`
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3KeyID          string `env:"S3_KEY_ID"`
	S3AccessKey      string `env:"S3_ACCESS_KEY"`

	// Prod is true only when PRODUCTION is the literal "true".
	Prod bool
}

// LoadRuntimeConfig reads RuntimeConfig from the environment. When envFiles
// is empty a ".env" file in the working directory is loaded first if it
// exists; variables that are already set are never overwritten.
func LoadRuntimeConfig(envFiles ...string) (*RuntimeConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
		slog.Debug("no env file found, using process environment only")
	}

	cfg := &RuntimeConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read runtime configuration: %w", err)
	}
	cfg.Prod = cfg.Production == "true"
	return cfg, nil
}

// LogValue keeps credentials out of structured logs.
func (c RuntimeConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("prod", c.Prod),
		slog.String("app_name", c.AppName),
		slog.String("bucket", c.BucketName),
		slog.String("covers_bucket", c.CoversBucketName),
		slog.String("file_prefix", c.FilePrefix),
		slog.String("s3_endpoint", c.S3Endpoint),
		slog.Bool("s3_static_credentials", c.S3KeyID != "" && c.S3AccessKey != ""),
	)
}
