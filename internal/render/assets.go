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
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/patrickmn/go-cache"
	"golang.org/x/image/font/opentype"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	// Extra decoders for assets and covers.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// AssetCache holds decoded images and parsed fonts keyed by file path.
// Entries expire after the configured TTL; concurrent loads of the same
// path share a single read.
type AssetCache struct {
	cache *cache.Cache
	group singleflight.Group
}

// NewAssetCache creates a cache whose entries live for ttl. A non-positive
// ttl keeps entries until the process exits.
func NewAssetCache(ttl time.Duration) *AssetCache {
	if ttl <= 0 {
		return &AssetCache{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &AssetCache{cache: cache.New(ttl, 2*ttl)}
}

// Image returns the decoded image stored at path.
func (a *AssetCache) Image(path string) (image.Image, error) {
	v, err := a.load("image:"+path, func() (interface{}, error) {
		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load image asset %s: %w", path, err)
		}
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	img, ok := v.(image.Image)
	if !ok {
		return nil, fmt.Errorf("unexpected cached type for %s: %T", path, v)
	}
	return img, nil
}

// Font returns the parsed TrueType or OpenType font stored at path.
func (a *AssetCache) Font(path string) (*opentype.Font, error) {
	v, err := a.load("font:"+path, func() (interface{}, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font asset %s: %w", path, err)
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font asset %s: %w", path, err)
		}
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	f, ok := v.(*opentype.Font)
	if !ok {
		return nil, fmt.Errorf("unexpected cached type for %s: %T", path, v)
	}
	return f, nil
}

func (a *AssetCache) load(key string, fn func() (interface{}, error)) (interface{}, error) {
	if v, ok := a.cache.Get(key); ok {
		return v, nil
	}
	v, err, _ := a.group.Do(key, func() (interface{}, error) {
		// Another caller may have filled the entry while this one waited.
		if v, ok := a.cache.Get(key); ok {
			return v, nil
		}
		v, err := fn()
		if err != nil {
			return nil, err
		}
		a.cache.SetDefault(key, v)
		return v, nil
	})
	return v, err
}

// Check loads every image and font referenced by params, in parallel.
func (a *AssetCache) Check(ctx context.Context, params Params) error {
	eg, egCtx := errgroup.WithContext(ctx)
	for _, p := range params.images() {
		path := p
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			_, err := a.Image(path)
			return err
		})
	}
	for _, p := range params.fonts() {
		path := p
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			_, err := a.Font(path)
			return err
		})
	}
	return eg.Wait()
}

// Len reports how many assets are currently cached.
func (a *AssetCache) Len() int {
	return a.cache.ItemCount()
}
