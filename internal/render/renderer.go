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

// Package render composes preview images for media items. The Renderer
// interface is the seam the request pipeline depends on; Compositor is the
// built-in implementation and QuotaAwareRenderer bounds its throughput.
package render

import (
	"context"

	"github.com/jaycherian/media-preview-service/internal/cloud"
	"github.com/jaycherian/media-preview-service/internal/core/model"
)

// Params carries every style input of a render: the canvas size, the asset
// files, the layout scale and the palette. Colors are color spec strings
// accepted by ParseColor.
type Params struct {
	Width  int
	Height int

	BackgroundTile string
	Star           string
	LogoText       string
	LogoGlyph      string

	TextFont     string
	BoldTextFont string
	NumberFont   string
	JapaneseFont string

	Proportion float64

	BackgroundColor string
	TextColor       string
	YearColor       string
	ActiveStarColor string
	StarColor       string
}

// Renderer composes a preview for item, whose CoverPath must point at a
// local image, and writes it as a JPEG inside outDir. It returns the path of
// the written file.
type Renderer interface {
	Render(ctx context.Context, item *model.Item, outDir string, params Params) (string, error)
}

// NewParams maps a presentation configuration onto render parameters.
func NewParams(p *cloud.PresentationConfig) Params {
	dims := p.Dimensions()
	return Params{
		Width:           dims.Width,
		Height:          dims.Height,
		BackgroundTile:  p.Content.Images.BackgroundTile,
		Star:            p.Content.Images.Star,
		LogoText:        p.Content.Images.Logo.Text,
		LogoGlyph:       p.Content.Images.Logo.Glyph,
		TextFont:        p.Content.Fonts.Text,
		BoldTextFont:    p.Content.Fonts.BoldText,
		NumberFont:      p.Content.Fonts.Numbers,
		JapaneseFont:    p.Content.Fonts.Japanese,
		Proportion:      p.Proportion(),
		BackgroundColor: p.Colors.Background,
		TextColor:       p.Colors.Text,
		YearColor:       p.Colors.Year,
		ActiveStarColor: p.Colors.Rating.Active,
		StarColor:       p.Colors.Rating.Regular,
	}
}

func (p Params) images() []string {
	return []string{p.BackgroundTile, p.Star, p.LogoText, p.LogoGlyph}
}

func (p Params) fonts() []string {
	return []string{p.TextFont, p.BoldTextFont, p.NumberFont, p.JapaneseFont}
}

func (p Params) colors() []string {
	return []string{p.BackgroundColor, p.TextColor, p.YearColor, p.ActiveStarColor, p.StarColor}
}
