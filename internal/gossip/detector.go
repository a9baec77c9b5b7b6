package gossip

import (
	"slices"
	"strings"
	"unicode"

	"github.com/pscheid92/rumormill/internal/domain"
)

const maxRumorRunes = 280

// categoryKeywords is checked in order; the first category with a hit wins.
var categoryKeywords = []struct {
	category domain.Category
	words    []string
}{
	{domain.CategoryRomance, []string{"kiss", "kissed", "love", "loves", "loved", "affair", "flirt", "flirted", "flirting", "courting", "married", "eloped"}},
	{domain.CategoryConflict, []string{"fight", "fought", "punch", "punched", "argue", "argued", "quarrel", "quarreled", "duel", "attacked", "threatened", "slapped"}},
	{domain.CategorySecret, []string{"secret", "secretly", "hid", "hidden", "hiding", "whispered", "confessed", "spy", "spying"}},
	{domain.CategoryReputation, []string{"stole", "cheated", "lied", "bribed", "coward", "hero", "saved", "praised", "disgraced", "betrayed"}},
}

var (
	positiveWords = []string{"love", "loves", "loved", "hero", "saved", "praised", "brave", "kind", "generous", "helped"}
	negativeWords = []string{"stole", "cheated", "lied", "bribed", "coward", "disgraced", "betrayed", "attacked", "threatened", "slapped", "punched", "cruel"}
)

// KeywordDetector flags sentences that mention a known character alongside a
// category keyword. Matching is case-insensitive on whole words.
type KeywordDetector struct {
	directory domain.CharacterDirectory
}

func NewKeywordDetector(directory domain.CharacterDirectory) *KeywordDetector {
	return &KeywordDetector{directory: directory}
}

// Detect returns a seed for the first rumor-worthy sentence in text.
// The first named character is the subject, the second (if any) the target.
func (d *KeywordDetector) Detect(text string) (domain.RumorSeed, bool) {
	names := make(map[string]string)
	for _, c := range d.directory.Characters() {
		names[strings.ToLower(c)] = c
	}

	for _, sentence := range splitSentences(text) {
		words := tokenize(sentence)
		category, ok := matchCategory(words)
		if !ok {
			continue
		}

		var mentioned []string
		for _, w := range words {
			if c, ok := names[w]; ok && !slices.Contains(mentioned, c) {
				mentioned = append(mentioned, c)
			}
		}
		if len(mentioned) == 0 {
			continue
		}

		seed := domain.RumorSeed{
			Text:     truncateRunes(sentence, maxRumorRunes),
			Category: category,
			Subject:  mentioned[0],
			Spin:     matchSpin(words),
		}
		if len(mentioned) > 1 {
			seed.Target = mentioned[1]
		}
		return seed, true
	}
	return domain.RumorSeed{}, false
}

func matchCategory(words []string) (domain.Category, bool) {
	for _, table := range categoryKeywords {
		for _, kw := range table.words {
			if slices.Contains(words, kw) {
				return table.category, true
			}
		}
	}
	return "", false
}

// matchSpin counts valence words; a tie is neutral.
func matchSpin(words []string) domain.Spin {
	score := 0
	for _, w := range words {
		if slices.Contains(positiveWords, w) {
			score++
		}
		if slices.Contains(negativeWords, w) {
			score--
		}
	}
	switch {
	case score > 0:
		return domain.SpinPositive
	case score < 0:
		return domain.SpinNegative
	default:
		return domain.SpinNeutral
	}
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func tokenize(sentence string) []string {
	return strings.FieldsFunc(strings.ToLower(sentence), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_'
	})
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
