package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(value string) string {
	folded, _, err := transform.String(accentFolder, value)
	if err != nil {
		return value
	}
	return folded
}

// Slugify turns a title into a URL segment: "Satélites Meteorológicos" becomes "satelites-meteorologicos".
func Slugify(value string) string {
	return joinASCIIWords(value, '-')
}

// CleanName turns a form label into a field key: "¿Tu indicativo?" becomes "tu_indicativo".
func CleanName(label string) string {
	return joinASCIIWords(label, '_')
}

func joinASCIIWords(value string, sep rune) string {
	folded := strings.ToLower(foldAccents(strings.TrimSpace(value)))

	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingSep && b.Len() > 0 {
				b.WriteRune(sep)
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}
