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
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultSize is the size tag used when the presentation file omits one.
const DefaultSize = "big"

// Dimensions is a pixel width and height.
type Dimensions struct {
	Width  int
	Height int
}

// Sizes maps the known size tags to preview dimensions. Unknown tags fall
// back to "small".
var Sizes = map[string]Dimensions{
	"big":   {Width: 1200, Height: 630},
	"small": {Width: 600, Height: 315},
}

type PresentationRating struct {
	Active  string `mapstructure:"active" validate:"required"`
	Regular string `mapstructure:"regular" validate:"required"`
}

type PresentationColors struct {
	Background string             `mapstructure:"background" validate:"required"`
	Text       string             `mapstructure:"text" validate:"required"`
	Year       string             `mapstructure:"year" validate:"required"`
	Rating     PresentationRating `mapstructure:"rating" validate:"required"`
}

type PresentationLogo struct {
	Glyph string `mapstructure:"glyph" validate:"required"`
	Text  string `mapstructure:"text" validate:"required"`
}

type PresentationImages struct {
	BackgroundTile string           `mapstructure:"background_tile" validate:"required"`
	Star           string           `mapstructure:"star" validate:"required"`
	Logo           PresentationLogo `mapstructure:"logo" validate:"required"`
}

type PresentationFonts struct {
	Text     string `mapstructure:"text" validate:"required"`
	BoldText string `mapstructure:"bold_text" validate:"required"`
	Numbers  string `mapstructure:"numbers" validate:"required"`
	Japanese string `mapstructure:"japanese" validate:"required"`
}

type PresentationContent struct {
	Images PresentationImages `mapstructure:"images" validate:"required"`
	Fonts  PresentationFonts  `mapstructure:"fonts" validate:"required"`
}

// PresentationConfig is the visual style of the previews: the size tag, the
// palette and the asset files the renderer composes with.
type PresentationConfig struct {
	Size    string              `mapstructure:"size" validate:"required"`
	Colors  PresentationColors  `mapstructure:"colors" validate:"required"`
	Content PresentationContent `mapstructure:"content" validate:"required"`
}

// Dimensions returns the preview size for the configured tag.
func (p *PresentationConfig) Dimensions() Dimensions {
	if d, ok := Sizes[p.Size]; ok {
		return d
	}
	return Sizes["small"]
}

// Proportion is the scale applied to every layout measurement: 1.0 for
// "big" and 0.5 for anything else.
func (p *PresentationConfig) Proportion() float64 {
	if p.Size == "big" {
		return 1.0
	}
	return 0.5
}

// AssetPaths lists every file the presentation refers to.
func (p *PresentationConfig) AssetPaths() []string {
	c := p.Content
	return []string{
		c.Images.BackgroundTile, c.Images.Star, c.Images.Logo.Text, c.Images.Logo.Glyph,
		c.Fonts.Text, c.Fonts.BoldText, c.Fonts.Numbers, c.Fonts.Japanese,
	}
}

// LoadPresentationConfig parses and validates the presentation YAML at path.
func LoadPresentationConfig(path string) (*PresentationConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("size", DefaultSize)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read presentation config %s: %w", path, err)
	}

	var p PresentationConfig
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("failed to decode presentation config %s: %w", path, err)
	}

	if err := validator.New().Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid presentation config %s: %w", path, err)
	}
	return &p, nil
}
