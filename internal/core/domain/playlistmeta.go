package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"
)

const defaultEmoji = "🎶"

// emojiKeywords is scanned in order; the first keyword found in the mood or
// themes text wins.
var emojiKeywords = []string{
	"love", "romantic", "nostalgic", "calm", "joy", "party",
	"sad", "reflect", "night", "dream", "peace",
}

var emojiByKeyword = map[string]string{
	"love":      "💘",
	"romantic":  "💞",
	"nostalgic": "📻",
	"calm":      "🌙",
	"joy":       "🌼",
	"party":     "🎉",
	"sad":       "🫧",
	"reflect":   "🧘",
	"night":     "🌌",
	"dream":     "💭",
	"peace":     "🍃",
}

// BuildPlaylistMeta derives a display name and description from a mood
// profile. The name combines one of twelve templates, chosen uniformly at
// random, with a keyword-matched emoji.
func BuildPlaylistMeta(p MoodProfile) PlaylistMeta {
	return buildPlaylistMeta(p, rand.Intn)
}

func buildPlaylistMeta(p MoodProfile, pick func(n int) int) PlaylistMeta {
	moodTitle := titleCase(p.Mood)
	primaryTheme := capitalize(firstOr(p.Themes, "Mood"))
	fallbackGenre := firstOr(p.Genres, "Vibes")
	genreList := strings.Join(p.Genres, ", ")

	secondTheme := fallbackGenre
	if len(p.Themes) > 1 {
		secondTheme = p.Themes[1]
	}

	emoji := pickEmoji(p)

	templates := []string{
		emoji + " Echoes of " + primaryTheme,
		emoji + " " + capitalize(fallbackGenre) + " Bloom",
		emoji + " Vibes for " + moodTitle,
		"🎧 Tunes for " + primaryTheme,
		emoji + " The " + capitalize(fallbackGenre) + " Tapes",
		emoji + " Wrapped in " + primaryTheme,
		capitalize(fallbackGenre) + " ✦ " + primaryTheme + " Flow",
		emoji + " Sounds Like " + capitalize(secondTheme),
		"✨ " + primaryTheme + " in " + capitalize(fallbackGenre),
		emoji + " " + capitalize(primaryTheme) + " Radiowave",
		"🌈 Curated for " + moodTitle,
		emoji + " Soul of " + capitalize(fallbackGenre),
	}

	name := "MoodTune: " + templates[pick(len(templates))]

	var description string
	if len(p.Artists) > 0 {
		description = fmt.Sprintf("A mood of %s, featuring %s in a blend of %s.",
			p.Mood, strings.Join(p.Artists, ", "), genreList)
	} else {
		description = fmt.Sprintf("A mood of %s, captured in %s.", p.Mood, genreList)
	}

	return PlaylistMeta{Name: name, Description: description}
}

func pickEmoji(p MoodProfile) string {
	search := strings.ToLower(strings.Join(append([]string{p.Mood}, p.Themes...), " "))
	for _, keyword := range emojiKeywords {
		if strings.Contains(search, keyword) {
			return emojiByKeyword[keyword]
		}
	}
	return defaultEmoji
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 && values[0] != "" {
		return values[0]
	}
	return fallback
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}
