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

// Package model holds the data structures that flow through the preview
// pipeline: the inbound request, the normalized media item and the response.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the media discriminant of an Item.
type Kind string

const (
	KindAnime Kind = "anime"
	KindManga Kind = "manga"
)

var (
	// ErrUnknownKind is returned when a payload carries neither or both of
	// the anime and manga field sets.
	ErrUnknownKind = errors.New("payload is neither anime nor manga")
	// ErrMissingID is returned when a payload has no positive numeric id.
	ErrMissingID = errors.New("payload has no numeric id")
	// ErrInvalidPayload wraps JSON errors raised while decoding a payload.
	ErrInvalidPayload = errors.New("invalid payload")
)

// The field sets whose presence decides the kind of a payload.
var (
	mangaFields = []string{"volumes", "chapters", "publishers"}
	animeFields = []string{"episodes", "episodes_aired", "duration", "studios"}
)

// Genre is a catalogue genre attached to a title.
type Genre struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Russian string `json:"russian"`
}

// Company is a studio or a publisher.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Media holds the fields anime and manga payloads have in common.
type Media struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Russian    string   `json:"russian"`
	English    []string `json:"english"`
	Japanese   []string `json:"japanese"`
	Synonyms   []string `json:"synonyms"`
	URL        string   `json:"url"`
	Kind       string   `json:"kind"`
	Score      Score    `json:"score"`
	Status     string   `json:"status"`
	AiredOn    string   `json:"aired_on"`
	ReleasedOn string   `json:"released_on"`
	Rating     string   `json:"rating"`
	Genres     []Genre  `json:"genres"`
}

// Anime is the anime shape of a payload.
type Anime struct {
	Media
	Episodes      int       `json:"episodes"`
	EpisodesAired int       `json:"episodes_aired"`
	Duration      int       `json:"duration"`
	Studios       []Company `json:"studios"`
}

// Manga is the manga shape of a payload.
type Manga struct {
	Media
	Volumes    int       `json:"volumes"`
	Chapters   int       `json:"chapters"`
	Publishers []Company `json:"publishers"`
}

// Score is the catalogue score as sent upstream. It accepts a JSON string,
// a JSON number or null and keeps the text form.
type Score string

func (s *Score) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = Score(v)
	case json.Number:
		*s = Score(v.String())
	default:
		// Anything else is not a score; it renders as 0.
		*s = ""
	}
	return nil
}

// Item is a media payload normalized into a tagged union. Exactly one of
// anime and manga is set, matching kind. CoverPath is filled in once the
// cover has been downloaded.
type Item struct {
	kind      Kind
	anime     *Anime
	manga     *Manga
	CoverPath string
}

// NewItem classifies payload by the field sets it carries and decodes it
// into the matching shape.
func NewItem(payload json.RawMessage) (*Item, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	isManga := hasAny(fields, mangaFields)
	isAnime := hasAny(fields, animeFields)

	var item *Item
	switch {
	case isManga && !isAnime:
		m := &Manga{}
		if err := json.Unmarshal(payload, m); err != nil {
			return nil, fmt.Errorf("%w: manga: %w", ErrInvalidPayload, err)
		}
		item = &Item{kind: KindManga, manga: m}
	case isAnime && !isManga:
		a := &Anime{}
		if err := json.Unmarshal(payload, a); err != nil {
			return nil, fmt.Errorf("%w: anime: %w", ErrInvalidPayload, err)
		}
		item = &Item{kind: KindAnime, anime: a}
	default:
		return nil, ErrUnknownKind
	}

	if item.ID() <= 0 {
		return nil, ErrMissingID
	}
	return item, nil
}

func hasAny(fields map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}

func (i *Item) Kind() Kind { return i.kind }

// Anime returns the anime shape, or nil for a manga item.
func (i *Item) Anime() *Anime { return i.anime }

// Manga returns the manga shape, or nil for an anime item.
func (i *Item) Manga() *Manga { return i.manga }

func (i *Item) media() *Media {
	if i.anime != nil {
		return &i.anime.Media
	}
	return &i.manga.Media
}

func (i *Item) ID() int64 { return i.media().ID }

// Title prefers the localized (russian) title and falls back to the
// romanized name.
func (i *Item) Title() string {
	m := i.media()
	if strings.TrimSpace(m.Russian) != "" {
		return m.Russian
	}
	return m.Name
}

// Subtitle is the original japanese title when known, otherwise the name.
func (i *Item) Subtitle() string {
	m := i.media()
	for _, j := range m.Japanese {
		if strings.TrimSpace(j) != "" {
			return j
		}
	}
	if m.Name == i.Title() {
		return ""
	}
	return m.Name
}

// Year is the four digit year the title started airing or publishing.
func (i *Item) Year() string {
	m := i.media()
	for _, d := range []string{m.AiredOn, m.ReleasedOn} {
		if len(d) >= 4 {
			if _, err := strconv.Atoi(d[:4]); err == nil {
				return d[:4]
			}
		}
	}
	return ""
}

// Score parses the catalogue score (0..10). Unparsable scores are 0.
func (i *Item) Score() float64 {
	s, err := strconv.ParseFloat(strings.TrimSpace(string(i.media().Score)), 64)
	if err != nil || s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}

// Genres returns the localized genre names, falling back to the english ones.
func (i *Item) Genres() []string {
	m := i.media()
	out := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		if g.Russian != "" {
			out = append(out, g.Russian)
		} else if g.Name != "" {
			out = append(out, g.Name)
		}
	}
	return out
}
