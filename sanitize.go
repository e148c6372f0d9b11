package metadesc

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	forbiddenCharsRe = regexp.MustCompile(`[>:|“”"‘’]`)
	possessiveRe     = regexp.MustCompile(`(\w+)'s\b`)
	multiSpaceRe     = regexp.MustCompile(`\s{2,}`)
	anySpaceRe       = regexp.MustCompile(`\s+`)
	leadingPrepRe    = regexp.MustCompile(`(?i)^(by|with|through|using)\s+`)

	// Self-referential openings the model keeps producing despite the
	// prompt rules.
	selfRefRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*This\s+(guide|page|document|section)\s+(describes|covers|explains|provides)\s+`),
		regexp.MustCompile(`(?i)^\s*In\s+this\s+(guide|page|document|section)\s+`),
		regexp.MustCompile(`(?i)^\s*The\s+(guide|page|document|section)\s+(describes|covers|explains|provides)\s+`),
	}

	// Fragments of the prompt instructions that occasionally leak into the
	// generated text.
	leakagePhrases = []string{
		"Follow these rules strictly",
		"Your task is to",
		"You must now",
		"Output only",
		"Critical:",
		"Important:",
		"Note:",
		"Remember:",
		"Your response must contain only",
	}
)

// trailingStopwords are words a sentence must not end with after trimming.
var trailingStopwords = map[string]bool{
	"and": true, "or": true, "to": true, "for": true, "with": true,
	"in": true, "of": true, "on": true, "at": true, "by": true,
	"from": true, "into": true, "via": true, "as": true, "that": true,
	"which": true, "including": true, "such": true, "than": true,
	"then": true, "while": true, "when": true, "where": true,
}

// Sanitize cleans a raw model response into a final description. Steps run
// in a fixed order: strip quoting and markup artifacts, remove leaked prompt
// fragments, rewrite possessives, remove banned terms (case-insensitive
// whole words), correct brand near-misses against entities, drop forbidden
// characters and self-referential openings, clamp to MaxDescriptionLen on a
// word boundary, trim trailing stopwords and the final period, and
// capitalize the first letter. Returns "" when nothing usable remains.
func Sanitize(raw string, banned []string, entities *EntityContext) string {
	desc := stripArtifacts(raw)

	for _, phrase := range leakagePhrases {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase))
		desc = re.ReplaceAllString(desc, "")
	}
	desc = strings.TrimSpace(anySpaceRe.ReplaceAllString(desc, " "))

	desc = possessiveRe.ReplaceAllString(desc, "${1}s")
	desc = strings.ReplaceAll(desc, "'", "")

	for _, term := range sortedByLength(banned) {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		desc = re.ReplaceAllString(desc, "")
	}

	desc = entities.CorrectBrands(desc)

	desc = forbiddenCharsRe.ReplaceAllString(desc, " ")
	for _, re := range selfRefRes {
		desc = strings.TrimSpace(re.ReplaceAllString(desc, ""))
	}
	desc = leadingPrepRe.ReplaceAllString(desc, "")
	desc = strings.Trim(multiSpaceRe.ReplaceAllString(desc, " "), " ,;:-")
	if desc == "" {
		return ""
	}

	// The length window counts characters, not bytes.
	if runes := []rune(desc); len(runes) > MaxDescriptionLen {
		desc = string(runes[:MaxDescriptionLen+1])
		if i := strings.LastIndex(desc, " "); i != -1 {
			desc = desc[:i]
		} else {
			desc = string(runes[:MaxDescriptionLen])
		}
	}

	words := strings.Fields(strings.TrimRight(desc, " ,;:-."))
	for len(words) > 0 && trailingStopwords[strings.ToLower(strings.Trim(words[len(words)-1], ",.;"))] {
		words = words[:len(words)-1]
	}
	desc = strings.Join(words, " ")

	desc = strings.TrimSuffix(desc, ".")
	return capitalize(desc)
}

// stripArtifacts removes code fences, surrounding quotes, and stray
// whitespace a model response may carry around the actual sentence.
func stripArtifacts(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```markdown")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return strings.Trim(s, "\"'`“”‘’ ")
}

func sortedByLength(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	// Longest first so compound terms are removed before their parts.
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
