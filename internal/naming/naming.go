// Package naming builds TypeScript identifiers from path segments and
// suffixes.
//
// Word boundaries follow the usual JavaScript conventions: any
// non-alphanumeric rune separates words, and inside a run a new word starts
// at a lower-to-upper transition, at a letter/digit transition, and before
// the last capital of an acronym that is followed by a lowercase letter
// ("XMLHttp" → "XML", "Http"). English ordinals stay whole ("1st", "22nd",
// "4TH") when they end the run or are followed by a change of case.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits s into words.
func Words(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !isWordRune(r) {
			flush(i)
			continue
		}
		if unicode.IsDigit(r) && (i == 0 || !unicode.IsDigit(runes[i-1])) {
			if end := ordinalEnd(runes, i); end > 0 {
				flush(i)
				words = append(words, string(runes[i:end]))
				i = end - 1
				continue
			}
		}
		if start < 0 {
			start = i
			continue
		}
		if boundary(runes, i) {
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}

// boundary reports whether a new word starts at runes[i]. runes[i-1] is a
// word rune.
func boundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsDigit(prev) != unicode.IsDigit(cur):
		return true
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur):
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	}
	return false
}

// ordinalEnd returns the end of the ordinal starting with the digit run at
// runes[i], or -1. The suffix must agree with the last digit (1st, 2nd, 3rd,
// otherwise th, so "11th" and "12th" are not ordinals) and be all lower or
// all upper case. It must be followed by the end, a non-word rune, '_' or a
// letter of the opposite case.
func ordinalEnd(runes []rune, i int) int {
	j := i
	for j < len(runes) && unicode.IsDigit(runes[j]) {
		j++
	}
	if j+2 > len(runes) {
		return -1
	}
	suffix := string(runes[j : j+2])
	lower := strings.ToLower(suffix)
	isLower := suffix == lower
	if !isLower && suffix != strings.ToUpper(suffix) {
		return -1
	}

	want := "th"
	switch runes[j-1] {
	case '1':
		want = "st"
	case '2':
		want = "nd"
	case '3':
		want = "rd"
	}
	if lower != want {
		return -1
	}

	end := j + 2
	if end == len(runes) {
		return end
	}
	next := runes[end]
	switch {
	case next == '_' || !isWordRune(next):
		return end
	case isLower && unicode.IsUpper(next):
		return end
	case !isLower && unicode.IsLower(next):
		return end
	}
	return -1
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// CamelCase joins the words of all parts as lowerCamelCase. Every word is
// lowercased first, so "getUsersById" survives while "XMLParser" becomes
// "xmlParser".
func CamelCase(parts ...string) string {
	lower := cases.Lower(language.Und)

	var sb strings.Builder
	for i, w := range Words(strings.Join(parts, ",")) {
		if i == 0 {
			sb.WriteString(lower.String(w))
			continue
		}
		sb.WriteString(UpperFirst(lower.String(w)))
	}
	return sb.String()
}

// PascalCase is CamelCase with the first rune uppercased.
func PascalCase(parts ...string) string {
	return UpperFirst(CamelCase(parts...))
}

// UpperFirst uppercases the first rune of s.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
