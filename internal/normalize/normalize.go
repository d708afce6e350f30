package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Name canonicalizes a raw name string: diacritics stripped, hyphens and
// apostrophes dropped, interior whitespace collapsed, lowercase. Subgenus
// parentheses are removed so "Vampyressa (Vampyriscus) brocki" and
// "Vampyressa brocki" normalize identically. The second return is false when
// nothing usable remains (empty or all-punctuation input).
func Name(raw string) (string, bool) {
	stripped, _, err := transform.String(stripDiacritics, raw)
	if err != nil {
		stripped = raw
	}
	var builder strings.Builder
	builder.Grow(len(stripped))
	depth := 0
	lastSpace := true
	for _, r := range stripped {
		switch {
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		case unicode.IsLetter(r):
			builder.WriteRune(unicode.ToLower(r))
			lastSpace = false
		case unicode.IsSpace(r) || r == '-':
			if !lastSpace {
				builder.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	result := strings.TrimSpace(builder.String())
	return result, result != ""
}

// Root returns the normalized terminal component of a binomen or trinomen:
// the epithet actually used for matching. For uninomial input it returns the
// whole normalized name.
func Root(raw string) string {
	normalized, ok := Name(raw)
	if !ok {
		return ""
	}
	parts := strings.Fields(normalized)
	return parts[len(parts)-1]
}

// GenusOf returns the normalized leading component of a binomen, or the
// empty string for uninomial input (no stated genus).
func GenusOf(raw string) string {
	normalized, ok := Name(raw)
	if !ok {
		return ""
	}
	parts := strings.Fields(normalized)
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

// equivalentSuffixes lists the Code-mandated suffix pairs that are always
// homonyms regardless of spelling. Longer suffixes first so the rewrite is
// unambiguous; each maps onto the canonical short form.
var equivalentSuffixes = []struct {
	variant   string
	canonical string
}{
	{"iorum", "orum"},
	{"iarum", "arum"},
	{"iensis", "ensis"},
	{"iense", "ense"},
	{"iae", "ae"},
	{"ii", "i"},
}

// EquivalenceKey collapses a normalized root name onto the canonical member
// of its Code-mandated homonymy class. Roots with equal keys are variant
// spellings of the same name for homonymy purposes. The mapping is a pure
// rewrite, so equivalence is symmetric and transitive by construction.
func EquivalenceKey(root string) string {
	normalized, ok := Name(root)
	if !ok {
		return ""
	}
	for _, pair := range equivalentSuffixes {
		if strings.HasSuffix(normalized, pair.variant) && len(normalized) > len(pair.variant) {
			return strings.TrimSuffix(normalized, pair.variant) + pair.canonical
		}
	}
	return normalized
}

// Equivalent reports whether two root names fall into the same Code-mandated
// homonymy class.
func Equivalent(a, b string) bool {
	keyA := EquivalenceKey(a)
	return keyA != "" && keyA == EquivalenceKey(b)
}

// familyEndings holds the family-group rank endings ordered longest first so
// stem extraction strips the full ending.
var familyEndings = []string{"oidea", "idae", "inae", "ini", "ina"}

// FamilyStem splits a normalized family-group name into its stem and rank
// ending. The ending is empty when the name carries none of the standard
// endings.
func FamilyStem(name string) (string, string) {
	normalized, ok := Name(name)
	if !ok {
		return "", ""
	}
	for _, ending := range familyEndings {
		if strings.HasSuffix(normalized, ending) && len(normalized) > len(ending) {
			return strings.TrimSuffix(normalized, ending), ending
		}
	}
	return normalized, ""
}

// FamilyVariants returns the name respelled with every standard family-group
// rank ending, the input's own form first. Rank reassignment is common, so a
// family cited as a subfamily or tribe must still find its canonical record.
func FamilyVariants(name string) []string {
	stem, ending := FamilyStem(name)
	if stem == "" {
		return nil
	}
	variants := make([]string, 0, len(familyEndings)+1)
	if ending != "" {
		variants = append(variants, stem+ending)
	} else {
		variants = append(variants, stem)
	}
	for _, candidate := range familyEndings {
		if candidate == ending {
			continue
		}
		variants = append(variants, stem+candidate)
	}
	return variants
}
