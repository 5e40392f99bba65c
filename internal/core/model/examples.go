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

package model

import "encoding/json"

// GetExampleAnimePayload returns a trimmed catalogue anime record.
func GetExampleAnimePayload() json.RawMessage {
	return json.RawMessage(`{
  "id": 42,
  "name": "Cowboy Bebop",
  "russian": "Ковбой Бибоп",
  "url": "/animes/1-cowboy-bebop",
  "kind": "tv",
  "score": "8.75",
  "status": "released",
  "episodes": 26,
  "episodes_aired": 26,
  "aired_on": "1998-04-03",
  "released_on": "1999-04-24",
  "rating": "r",
  "english": ["Cowboy Bebop"],
  "japanese": ["カウボーイビバップ"],
  "synonyms": [],
  "duration": 24,
  "genres": [
    {"id": 1, "name": "Action", "russian": "Экшен"},
    {"id": 24, "name": "Sci-Fi", "russian": "Фантастика"}
  ],
  "studios": [{"id": 14, "name": "Sunrise"}]
}`)
}

// GetExampleMangaPayload returns a trimmed catalogue manga record.
func GetExampleMangaPayload() json.RawMessage {
	return json.RawMessage(`{
  "id": 7,
  "name": "Monster",
  "russian": "Монстр",
  "url": "/mangas/1-monster",
  "kind": "manga",
  "score": "9.1",
  "status": "released",
  "volumes": 18,
  "chapters": 162,
  "aired_on": "1994-12-05",
  "released_on": "2001-12-20",
  "english": ["Monster"],
  "japanese": ["MONSTER"],
  "genres": [{"id": 7, "name": "Mystery", "russian": "Детектив"}],
  "publishers": [{"id": 3, "name": "Big Comic Original"}]
}`)
}
