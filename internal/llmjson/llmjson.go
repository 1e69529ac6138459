// Package llmjson parses the semi-structured JSON that text-generation
// models return. Output may arrive wrapped in fenced code blocks and may
// carry trailing commas; both are repaired before strict parsing. Where the
// model's object key order is meaningful (song candidates grouped by artist
// or genre), parsing preserves it.
package llmjson

import (
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// Object is a JSON object with its key order preserved.
type Object struct {
	Keys   []string
	Values map[string]json.RawMessage
}

// Decode repairs raw and unmarshals it into v. A failure after repair is a
// *domain.MalformedResponseError.
func Decode(raw string, v any) error {
	repaired := repair(raw)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return &domain.MalformedResponseError{Snippet: snippet(repaired)}
	}
	return nil
}

// Parse repairs raw and parses it as a single JSON object, preserving key
// order. A failure after repair is a *domain.MalformedResponseError.
func Parse(raw string) (Object, error) {
	repaired := repair(raw)
	obj, err := parseObject(json.NewDecoder(strings.NewReader(repaired)))
	if err != nil {
		return Object{}, &domain.MalformedResponseError{Snippet: snippet(repaired)}
	}
	return obj, nil
}

// FlattenCandidates collapses a parsed song-candidate object into one
// artist-to-songs map. Top-level array values are taken as artist song
// lists directly; top-level object values are genre buckets whose inner
// (artist, song-or-songs) pairs are merged into the artist's accumulated
// list, preserving encounter order within and across buckets.
func FlattenCandidates(obj Object) (domain.CandidateSongMap, error) {
	var out domain.CandidateSongMap

	for _, key := range obj.Keys {
		value := obj.Values[key]
		switch firstByte(value) {
		case '[':
			titles, err := decodeTitles(value)
			if err != nil {
				return domain.CandidateSongMap{}, &domain.MalformedResponseError{Snippet: snippet(string(value))}
			}
			out.Add(key, titles...)
		case '{':
			bucket, err := parseObject(json.NewDecoder(strings.NewReader(string(value))))
			if err != nil {
				return domain.CandidateSongMap{}, &domain.MalformedResponseError{Snippet: snippet(string(value))}
			}
			for _, artist := range bucket.Keys {
				titles, err := decodeTitles(bucket.Values[artist])
				if err != nil {
					return domain.CandidateSongMap{}, &domain.MalformedResponseError{Snippet: snippet(string(value))}
				}
				out.Add(artist, titles...)
			}
		default:
			// Scalar values carry no candidates; skip.
		}
	}

	return out, nil
}

// repair strips a leading/trailing code fence (language-tagged or bare) and
// removes trailing commas immediately preceding a closing brace or bracket.
func repair(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	trimmed = strings.TrimSpace(trimmed)

	return trailingCommaRe.ReplaceAllString(trimmed, "$1")
}

func parseObject(dec *json.Decoder) (Object, error) {
	tok, err := dec.Token()
	if err != nil {
		return Object{}, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Object{}, io.ErrUnexpectedEOF
	}

	obj := Object{Values: make(map[string]json.RawMessage)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Object{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Object{}, io.ErrUnexpectedEOF
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return Object{}, err
		}

		if _, seen := obj.Values[key]; !seen {
			obj.Keys = append(obj.Keys, key)
		}
		obj.Values[key] = value
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return Object{}, err
	}

	return obj, nil
}

// decodeTitles accepts either a single song title or a list of titles.
func decodeTitles(value json.RawMessage) ([]string, error) {
	if firstByte(value) == '[' {
		var titles []string
		if err := json.Unmarshal(value, &titles); err != nil {
			return nil, err
		}
		return titles, nil
	}

	var title string
	if err := json.Unmarshal(value, &title); err != nil {
		return nil, err
	}
	return []string{title}, nil
}

func firstByte(value json.RawMessage) byte {
	for _, b := range value {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

func snippet(s string) string {
	const limit = 120
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "…"
}
