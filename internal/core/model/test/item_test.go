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

// Package model_test covers payload classification and the naming helpers
// used to place covers and previews.
package model_test

import (
	"encoding/json"
	"testing"

	"github.com/jaycherian/media-preview-service/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemAnime(t *testing.T) {
	item, err := model.NewItem(model.GetExampleAnimePayload())
	require.NoError(t, err)

	assert.Equal(t, model.KindAnime, item.Kind())
	assert.Equal(t, int64(42), item.ID())
	assert.NotNil(t, item.Anime())
	assert.Nil(t, item.Manga())
	assert.Equal(t, 26, item.Anime().Episodes)
	assert.Equal(t, "Ковбой Бибоп", item.Title())
	assert.Equal(t, "カウボーイビバップ", item.Subtitle())
	assert.Equal(t, "1998", item.Year())
	assert.InDelta(t, 8.75, item.Score(), 0.0001)
	assert.Equal(t, []string{"Экшен", "Фантастика"}, item.Genres())
}

func TestNewItemManga(t *testing.T) {
	item, err := model.NewItem(model.GetExampleMangaPayload())
	require.NoError(t, err)

	assert.Equal(t, model.KindManga, item.Kind())
	assert.Equal(t, int64(7), item.ID())
	assert.Nil(t, item.Anime())
	assert.Equal(t, 18, item.Manga().Volumes)
	assert.Equal(t, "Big Comic Original", item.Manga().Publishers[0].Name)
}

func TestNewItemClassification(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		kind    model.Kind
		err     error
	}{
		{"single manga field", `{"id": 1, "chapters": 3}`, model.KindManga, nil},
		{"single anime field", `{"id": 1, "studios": []}`, model.KindAnime, nil},
		{"null still counts as present", `{"id": 1, "duration": null}`, model.KindAnime, nil},
		{"both field sets", `{"id": 1, "volumes": 1, "episodes": 1}`, "", model.ErrUnknownKind},
		{"neither field set", `{"id": 1, "name": "x"}`, "", model.ErrUnknownKind},
		{"missing id", `{"volumes": 1}`, "", model.ErrMissingID},
		{"zero id", `{"id": 0, "episodes": 1}`, "", model.ErrMissingID},
		{"numeric score", `{"id": 5, "name": "x", "score": 8.5, "episodes": 12}`, model.KindAnime, nil},
		{"null score and dates", `{"id": 5, "score": null, "aired_on": null, "english": [null], "episodes": 12}`, model.KindAnime, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := model.NewItem(json.RawMessage(tt.payload))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, item)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, item.Kind())
		})
	}
}

func TestNewItemRejectsMalformedJSON(t *testing.T) {
	_, err := model.NewItem(json.RawMessage(`[1, 2]`))
	assert.ErrorIs(t, err, model.ErrInvalidPayload)
	assert.NotErrorIs(t, err, model.ErrUnknownKind)

	// A field of the wrong type is rejected after classification.
	_, err = model.NewItem(json.RawMessage(`{"id": 1, "episodes": "many"}`))
	assert.ErrorIs(t, err, model.ErrInvalidPayload)
}

func TestItemFallbacks(t *testing.T) {
	item, err := model.NewItem(json.RawMessage(`{"id": 5, "name": "Akira", "volumes": 6, "score": "n/a", "released_on": "?"}`))
	require.NoError(t, err)

	assert.Equal(t, "Akira", item.Title())
	assert.Equal(t, "", item.Subtitle())
	assert.Equal(t, "", item.Year())
	assert.Equal(t, 0.0, item.Score())
	assert.Empty(t, item.Genres())
}

func TestItemScoreForms(t *testing.T) {
	tests := map[string]struct {
		score string
		want  float64
	}{
		"string":          {`"8.5"`, 8.5},
		"number":          {`8.5`, 8.5},
		"integer":         {`7`, 7},
		"null":            {`null`, 0},
		"not a number":    {`"n/a"`, 0},
		"above the cap":   {`12.5`, 10},
		"negative":        {`-1`, 0},
		"other json type": {`[8.5]`, 0},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			item, err := model.NewItem(json.RawMessage(`{"id": 5, "name": "x", "episodes": 12, "score": ` + tt.score + `}`))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, item.Score(), 0.0001)
		})
	}
}

func TestUploadKey(t *testing.T) {
	assert.Equal(t, "previews/anime/42.jpg", model.UploadKey("previews", model.KindAnime, 42, true))
	assert.Equal(t, "previews/dev_manga/7.jpg", model.UploadKey("previews", model.KindManga, 7, false))
	assert.Equal(t, "manga-7.jpg", model.CoverFileName(model.KindManga, 7))
}
