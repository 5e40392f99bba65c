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

// Package test provides fixtures and fakes shared by the test suites: a
// ready to use configuration, generated presentation assets, an in-memory
// object store, a stub renderer and a recording notifier.
package test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/model"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// HandleErr fails the test immediately when err is not nil.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// GetConfig returns an application configuration backed by the local
// filesystem, with its storage root and work directory inside t's temp dir.
func GetConfig(t *testing.T) *cloud.Config {
	t.Helper()
	config := cloud.NewConfig()
	config.Application.WorkDir = filepath.Join(t.TempDir(), "work")
	config.Storage.Provider = cloud.StorageProviderLocalFS
	config.Storage.LocalRoot = filepath.Join(t.TempDir(), "storage")
	return config
}

// GetRuntimeConfig returns the environment defaults for a development
// (prod=false) or production deployment.
func GetRuntimeConfig(prod bool) *cloud.RuntimeConfig {
	production := "false"
	if prod {
		production = "true"
	}
	return &cloud.RuntimeConfig{
		Production:       production,
		Prod:             prod,
		AppName:          "Anime.News",
		BucketName:       "previews",
		CoversBucketName: "covers",
		FilePrefix:       "output",
	}
}

// WriteAssets generates a complete set of presentation assets (tile, star,
// logo images and Go fonts) in dir and returns a presentation config that
// points at them.
func WriteAssets(t *testing.T, dir, size string) *cloud.PresentationConfig {
	t.Helper()
	HandleErr(os.MkdirAll(dir, 0o755), t)

	writeImage := func(name string, w, h int, c color.Color) string {
		path := filepath.Join(dir, name)
		HandleErr(imaging.Save(imaging.New(w, h, c), path), t)
		return path
	}
	writeFont := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		HandleErr(os.WriteFile(path, data, 0o644), t)
		return path
	}

	p := &cloud.PresentationConfig{Size: size}
	p.Colors = cloud.PresentationColors{
		Background: "#1b1b1b",
		Text:       "white",
		Year:       "#ffb400",
		Rating:     cloud.PresentationRating{Active: "gold", Regular: "#555"},
	}
	p.Content.Images = cloud.PresentationImages{
		BackgroundTile: writeImage("tile.png", 32, 32, color.NRGBA{R: 40, G: 40, B: 60, A: 255}),
		Star:           writeImage("star.png", 24, 24, color.NRGBA{A: 255}),
		Logo: cloud.PresentationLogo{
			Text:  writeImage("logo-text.png", 120, 30, color.NRGBA{R: 255, G: 255, B: 255, A: 200}),
			Glyph: writeImage("logo-glyph.png", 30, 30, color.NRGBA{R: 255, A: 255}),
		},
	}
	p.Content.Fonts = cloud.PresentationFonts{
		Text:     writeFont("text.ttf", goregular.TTF),
		BoldText: writeFont("bold.ttf", gobold.TTF),
		Numbers:  writeFont("numbers.ttf", gomono.TTF),
		Japanese: writeFont("japanese.ttf", goregular.TTF),
	}
	return p
}

// JPEG returns an encoded w x h JPEG filled with c.
func JPEG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	var buf bytes.Buffer
	HandleErr(imaging.Encode(&buf, imaging.New(w, h, c), imaging.JPEG), t)
	return buf.Bytes()
}

// WriteCover stores a generated cover image at path.
func WriteCover(t *testing.T, path string) {
	t.Helper()
	HandleErr(os.MkdirAll(filepath.Dir(path), 0o755), t)
	HandleErr(os.WriteFile(path, JPEG(t, 225, 320, color.NRGBA{R: 200, G: 80, B: 40, A: 255}), 0o644), t)
}

// DecodeConfig returns the dimensions of the image file at path.
func DecodeConfig(t *testing.T, path string) image.Config {
	t.Helper()
	f, err := os.Open(path)
	HandleErr(err, t)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	HandleErr(err, t)
	return cfg
}

// GetGenerateRequestBody returns a /generate body for payload and cover.
func GetGenerateRequestBody(t *testing.T, payload json.RawMessage, cover string) []byte {
	t.Helper()
	body, err := json.Marshal(model.GenerateRequest{Payload: payload, Cover: cover})
	HandleErr(err, t)
	return body
}
