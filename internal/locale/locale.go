package locale

import (
	"fmt"
	"strings"
	"time"
)

// Spanish is the only language the site is published in.
const LanguageSpanish = "es"

type Preference struct {
	Language string
	Locale   string
	HTMLLang string
}

// Default returns the language metadata used by every public template.
func Default() Preference {
	return Preference{Language: LanguageSpanish, Locale: "es_ES", HTMLLang: "es"}
}

// FormatDate renders a date as "5 de marzo de 2025".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), MonthName(t.Month()), t.Year())
}

// FormatShortDate renders a date as "05/03/2025".
func FormatShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// FormatDateRange renders an event span, collapsing the shared month and year.
func FormatDateRange(from time.Time, to *time.Time) string {
	if from.IsZero() {
		return ""
	}
	if to == nil || to.IsZero() || sameDay(from, *to) {
		return FormatDate(from)
	}
	end := *to
	switch {
	case from.Year() == end.Year() && from.Month() == end.Month():
		return fmt.Sprintf("del %d al %d de %s de %d", from.Day(), end.Day(), MonthName(end.Month()), end.Year())
	case from.Year() == end.Year():
		return fmt.Sprintf("del %d de %s al %d de %s de %d", from.Day(), MonthName(from.Month()), end.Day(), MonthName(end.Month()), end.Year())
	default:
		return "del " + FormatDate(from) + " al " + FormatDate(end)
	}
}

// MonthAbbrev returns the three-letter upper-case month used on date badges.
func MonthAbbrev(m time.Month) string {
	name := MonthName(m)
	if len([]rune(name)) < 3 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(string([]rune(name)[:3]))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
