package metadata

import (
	"regexp"
	"strings"
)

// Bracket pairs scanned for decorative spans. Full-width variants are
// normalized to ASCII square brackets when a span is kept.
var bracketPairs = [][2]string{
	{"[", "]"},
	{"(", ")"},
	{"【", "】"},
	{"「", "」"},
	{"（", "）"},
}

var bracketSpanPatterns = buildBracketPatterns()

func buildBracketPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(bracketPairs))
	for _, pair := range bracketPairs {
		lb, rb := regexp.QuoteMeta(pair[0]), regexp.QuoteMeta(pair[1])
		// Innermost spans only: the span content must not reopen the pair.
		patterns = append(patterns, regexp.MustCompile(lb+"([^"+lb+rb+"]+)"+rb))
	}
	return patterns
}

// A span is kept when it starts with a Han/Hiragana/Katakana run (a
// native-script aside, usually the original song title). Every alternative
// is anchored: script marks mid-span do not save a span.
var nativeScriptPattern = regexp.MustCompile(`^(?:[\x{4E00}-\x{9FA0}]+|[\x{3041}-\x{3094}]+|[\x{30A1}-\x{30F4}\x{30FC}]+|[々〆〤ヶ]+|\s+$)`)

var (
	emojiPattern  = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}]+`)
	promoPattern  = regexp.MustCompile(`\*\b[A-Z ]+\b\*`) // *NOW ON ALL PLATFORMS*
	squashPattern = regexp.MustCompile(`(\S)\[`)
	spaceRuns     = regexp.MustCompile(`\s{2,}`)
	bannedGlyphs  = "♪"
)

// CleanTitle strips platform noise from a raw upload title while keeping
// semantic content: bracketed spans are deleted unless they mark a cover or
// carry a native-script title, in which case they are re-wrapped in ASCII
// square brackets. Pure and idempotent.
func CleanTitle(title string) string {
	for _, pattern := range bracketSpanPatterns {
		for _, m := range pattern.FindAllStringSubmatch(title, -1) {
			span, content := m[0], m[1]
			replacement := ""
			if strings.Contains(strings.ToLower(span), "cover") || nativeScriptPattern.MatchString(content) {
				replacement = "[" + content + "]"
			}
			title = strings.ReplaceAll(title, span, replacement)
		}
	}

	for _, glyph := range bannedGlyphs {
		title = strings.ReplaceAll(title, string(glyph), "")
	}
	title = emojiPattern.ReplaceAllString(title, "")
	title = promoPattern.ReplaceAllString(title, "")
	title = squashPattern.ReplaceAllString(title, "$1 [")
	title = spaceRuns.ReplaceAllString(title, " ")
	title = strings.ReplaceAll(title, "_", "-")
	return strings.TrimSpace(title)
}
