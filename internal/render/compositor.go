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

package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jaycherian/media-preview-service/internal/core/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Layout measurements at proportion 1.0 (the 1200x630 "big" preview).
const (
	margin         = 40.0
	coverWidth     = 370.0
	coverHeight    = 550.0
	gap            = 50.0
	titleSize      = 56.0
	subtitleSize   = 32.0
	yearSize       = 40.0
	scoreSize      = 44.0
	genresSize     = 28.0
	starSize       = 40.0
	starSpacing    = 8.0
	logoHeight     = 56.0
	lineSpacing    = 18.0
	tileOpacity    = 0.25
	maxGenres      = 3
	starCount      = 5
	defaultQuality = 90
	ellipsis       = "…"
)

// Compositor draws previews with imaging and x/image/font. It is safe for
// concurrent use; per-render state (font faces, canvases) is never shared.
type Compositor struct {
	assets  *AssetCache
	quality int
}

// NewCompositor creates a compositor reading assets through assets and
// encoding JPEGs at quality (1-100, 0 picks the default).
func NewCompositor(assets *AssetCache, quality int) *Compositor {
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	return &Compositor{assets: assets, quality: quality}
}

type palette struct {
	background, text, year, activeStar, star color.NRGBA
}

func parsePalette(p Params) (palette, error) {
	var out palette
	targets := []*color.NRGBA{&out.background, &out.text, &out.year, &out.activeStar, &out.star}
	for i, spec := range p.colors() {
		c, err := ParseColor(spec)
		if err != nil {
			return palette{}, err
		}
		*targets[i] = c
	}
	return out, nil
}

type fontSet struct {
	text, bold, numbers, japanese *opentype.Font
}

func (c *Compositor) loadFonts(p Params) (fontSet, error) {
	var fs fontSet
	targets := []**opentype.Font{&fs.text, &fs.bold, &fs.numbers, &fs.japanese}
	for i, path := range p.fonts() {
		f, err := c.assets.Font(path)
		if err != nil {
			return fontSet{}, err
		}
		*targets[i] = f
	}
	return fs, nil
}

// Render implements Renderer. The output file is named after the item's
// kind and id.
func (c *Compositor) Render(ctx context.Context, item *model.Item, outDir string, p Params) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.Width <= 0 || p.Height <= 0 || p.Proportion <= 0 {
		return "", fmt.Errorf("invalid render size %dx%d at proportion %v", p.Width, p.Height, p.Proportion)
	}

	colors, err := parsePalette(p)
	if err != nil {
		return "", err
	}
	fonts, err := c.loadFonts(p)
	if err != nil {
		return "", err
	}
	tile, err := c.assets.Image(p.BackgroundTile)
	if err != nil {
		return "", err
	}
	star, err := c.assets.Image(p.Star)
	if err != nil {
		return "", err
	}
	logoText, err := c.assets.Image(p.LogoText)
	if err != nil {
		return "", err
	}
	logoGlyph, err := c.assets.Image(p.LogoGlyph)
	if err != nil {
		return "", err
	}
	cover, err := imaging.Open(item.CoverPath)
	if err != nil {
		return "", fmt.Errorf("failed to open cover %s: %w", item.CoverPath, err)
	}

	s := scaler(p.Proportion)
	canvas := imaging.New(p.Width, p.Height, colors.background)
	canvas = drawTiles(canvas, tile, tileOpacity)

	// Cover panel on the left, cropped to fill.
	coverImg := imaging.Fill(cover, s(coverWidth), s(coverHeight), imaging.Center, imaging.Lanczos)
	canvas = imaging.Paste(canvas, coverImg, image.Pt(s(margin), (p.Height-coverImg.Bounds().Dy())/2))

	if err := ctx.Err(); err != nil {
		return "", err
	}

	x := s(margin) + coverImg.Bounds().Dx() + s(gap)
	maxWidth := p.Width - x - s(margin)
	y := s(margin)

	faces := newFaceCache(p.Proportion)
	defer faces.close()

	title, err := faces.get(fonts.bold, titleSize)
	if err != nil {
		return "", err
	}
	y = drawLine(canvas, title, colors.text, x, y, maxWidth, item.Title()) + s(lineSpacing)

	if sub := item.Subtitle(); sub != "" {
		face, err := faces.get(fonts.japanese, subtitleSize)
		if err != nil {
			return "", err
		}
		y = drawLine(canvas, face, colors.text, x, y, maxWidth, sub) + s(lineSpacing)
	}

	if year := item.Year(); year != "" {
		face, err := faces.get(fonts.numbers, yearSize)
		if err != nil {
			return "", err
		}
		y = drawLine(canvas, face, colors.year, x, y, maxWidth, year) + s(lineSpacing)
	}

	// Score digits followed by the star row.
	scoreFace, err := faces.get(fonts.numbers, scoreSize)
	if err != nil {
		return "", err
	}
	scoreText := fmt.Sprintf("%.2f", item.Score())
	scoreBottom := drawLine(canvas, scoreFace, colors.text, x, y, maxWidth, scoreText)
	starsX := x + font.MeasureString(scoreFace, scoreText).Ceil() + s(lineSpacing)
	canvas = drawStars(canvas, star, starsX, y, s(starSize), s(starSpacing), activeStars(item.Score()), colors)
	y = max(scoreBottom, y+s(starSize)) + s(lineSpacing)

	if genres := item.Genres(); len(genres) > 0 {
		if len(genres) > maxGenres {
			genres = genres[:maxGenres]
		}
		face, err := faces.get(fonts.text, genresSize)
		if err != nil {
			return "", err
		}
		drawLine(canvas, face, colors.text, x, y, maxWidth, strings.Join(genres, ", "))
	}

	// Logo glyph and logo text in the bottom right corner.
	glyph := imaging.Resize(logoGlyph, 0, s(logoHeight), imaging.Lanczos)
	text := imaging.Resize(logoText, 0, s(logoHeight), imaging.Lanczos)
	logoY := p.Height - s(margin) - s(logoHeight)
	textX := p.Width - s(margin) - text.Bounds().Dx()
	glyphX := textX - s(lineSpacing) - glyph.Bounds().Dx()
	canvas = imaging.Overlay(canvas, glyph, image.Pt(glyphX, logoY), 1.0)
	canvas = imaging.Overlay(canvas, text, image.Pt(textX, logoY), 1.0)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}
	out := filepath.Join(outDir, fmt.Sprintf("%s-%d.jpg", item.Kind(), item.ID()))
	if err := imaging.Save(canvas, out, imaging.JPEGQuality(c.quality)); err != nil {
		return "", fmt.Errorf("failed to encode preview %s: %w", out, err)
	}
	return out, nil
}

func scaler(proportion float64) func(float64) int {
	return func(v float64) int {
		return int(math.Round(v * proportion))
	}
}

// activeStars maps a 0..10 score onto a five star rating.
func activeStars(score float64) int {
	n := int(math.Round(score / 2))
	return min(max(n, 0), starCount)
}

// drawTiles repeats tile across a layer the size of the canvas and blends it
// in at the given opacity so the background color shows through.
func drawTiles(canvas *image.NRGBA, tile image.Image, opacity float64) *image.NRGBA {
	tb := tile.Bounds()
	if tb.Dx() == 0 || tb.Dy() == 0 {
		return canvas
	}
	cb := canvas.Bounds()
	layer := image.NewNRGBA(cb)
	for ty := cb.Min.Y; ty < cb.Max.Y; ty += tb.Dy() {
		for tx := cb.Min.X; tx < cb.Max.X; tx += tb.Dx() {
			draw.Draw(layer, image.Rect(tx, ty, tx+tb.Dx(), ty+tb.Dy()), tile, tb.Min, draw.Src)
		}
	}
	return imaging.Overlay(canvas, layer, cb.Min, opacity)
}

// tint recolors img keeping its alpha channel as a mask.
func tint(img image.Image, c color.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(px color.NRGBA) color.NRGBA {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(uint16(px.A) * uint16(c.A) / 255)}
	})
}

func drawStars(canvas *image.NRGBA, star image.Image, x, y, size, spacing, active int, colors palette) *image.NRGBA {
	scaled := imaging.Fit(star, size, size, imaging.Lanczos)
	on := tint(scaled, colors.activeStar)
	off := tint(scaled, colors.star)
	for i := 0; i < starCount; i++ {
		glyph := off
		if i < active {
			glyph = on
		}
		canvas = imaging.Overlay(canvas, glyph, image.Pt(x+i*(size+spacing), y), 1.0)
	}
	return canvas
}

// drawLine draws text with its top edge at y, shortened with an ellipsis to
// fit maxWidth, and returns the y of the line's bottom edge.
func drawLine(dst draw.Image, face font.Face, c color.NRGBA, x, y, maxWidth int, text string) int {
	metrics := face.Metrics()
	text = fitText(face, text, maxWidth)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
	return y + metrics.Height.Ceil()
}

func fitText(face font.Face, text string, maxWidth int) string {
	if maxWidth <= 0 || font.MeasureString(face, text).Ceil() <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimSpace(string(runes)) + ellipsis
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			return candidate
		}
	}
	return ""
}

// faceCache creates font faces for a single render and closes them after.
type faceCache struct {
	proportion float64
	faces      map[faceKey]font.Face
}

type faceKey struct {
	font *opentype.Font
	size float64
}

func newFaceCache(proportion float64) *faceCache {
	return &faceCache{proportion: proportion, faces: make(map[faceKey]font.Face)}
}

func (f *faceCache) get(fnt *opentype.Font, size float64) (font.Face, error) {
	key := faceKey{font: fnt, size: size}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size * f.proportion,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	f.faces[key] = face
	return face, nil
}

func (f *faceCache) close() {
	for _, face := range f.faces {
		_ = face.Close()
	}
}
