package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

// normaliseInput lowercases, splits camelCase words and collapses punctuation
// into single spaces, so "waterWell" and "Water-well!" both read "water well".
func normaliseInput(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	var prev rune
	for _, r := range raw {
		if unicode.IsUpper(r) && unicode.IsLower(prev) && !lastSpace {
			b.WriteByte(' ')
		}
		prev = r
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		switch r {
		case ' ', '\t', '\n', '\r', '-', '_', '/', '\'', ',', '.':
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

var numberWords = map[string]int{
	"one": 1, "first": 1, "1st": 1,
	"two": 2, "second": 2, "2nd": 2,
	"three": 3, "third": 3, "3rd": 3,
	"four": 4, "fourth": 4, "4th": 4,
	"five": 5, "fifth": 5, "5th": 5,
}

// parseNumberToken reads a small positive number written as digits, a word or
// an ordinal.
func parseNumberToken(token string) (int, bool) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return 0, false
	}
	if n, ok := numberWords[token]; ok {
		return n, true
	}
	if n, err := strconv.Atoi(token); err == nil && n >= 0 {
		return n, true
	}
	return 0, false
}

func isPronoun(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "him", "her", "them", "they", "he", "she":
		return true
	default:
		return false
	}
}

// isFiller reports words that carry no meaning inside an argument, as in
// "talk to alice" or "go to the beach".
func isFiller(token string) bool {
	switch token {
	case "to", "the", "a", "an", "with", "at", "for", "out", "about", "on", "up", "off", "over", "please":
		return true
	default:
		return false
	}
}

func stripFiller(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if isFiller(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
