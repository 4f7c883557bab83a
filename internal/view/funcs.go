package view

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/radioclub/internal/blocks"
	"github.com/radioclub/internal/config"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/locale"
	"github.com/radioclub/internal/service"
)

// Funcs returns the helpers available to every template. streams renders page bodies;
// a nil renderer renders bodies without image or page references. Dates are shown in loc,
// or in the club's default zone when loc is nil.
func Funcs(streams *blocks.Renderer, loc *time.Location) template.FuncMap {
	if streams == nil {
		streams = blocks.NewRenderer(nil)
	}
	if loc == nil {
		loc = config.DefaultLocation()
	}
	local := func(v interface{}) time.Time { return inZone(timeOf(v), loc) }

	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },

		"date":      func(v interface{}) string { return locale.FormatDate(local(v)) },
		"shortDate": func(v interface{}) string { return locale.FormatShortDate(local(v)) },
		"isoDate":   func(v interface{}) string { return isoDate(local(v)) },
		"dateRange": func(from, to *time.Time) string {
			var end *time.Time
			if to != nil {
				t := inZone(*to, loc)
				end = &t
			}
			return locale.FormatDateRange(local(from), end)
		},
		"monthAbbrev": func(v interface{}) string { return badgeMonth(local(v)) },
		"dayOfMonth":  func(v interface{}) string { return badgeDay(local(v)) },

		"richtext":    blocks.RichText,
		"streamfield": streams.Render,
		"excerpt":     blocks.PlainText,
		"lines":       splitLines,

		"isActive":     isActive,
		"pageURL":      pageURL,
		"categoryURL":  categoryURL,
		"fieldChoices": service.FieldChoices,
		"fieldContext": fieldContext,
		"isChecked":    isChecked,
		"iconLabel":    IconLabel,

		"htmlLang": func() string { return locale.Default().HTMLLang },
	}
}

func timeOf(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	}
	return time.Time{}
}

// inZone moves an instant into loc. Calendar dates are stored as midnight UTC and
// keep their day.
func inZone(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	if _, offset := t.Zone(); offset == 0 && t.Equal(dateOnly(t)) {
		return t
	}
	return t.In(loc)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func badgeMonth(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return locale.MonthAbbrev(t.Month())
}

func badgeDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.Itoa(t.Day())
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// isActive reports whether the menu entry item is the current page or one of its ancestors.
// The home page is only active on itself.
func isActive(current string, item db.Page) bool {
	if item.URLPath == "/" {
		return current == "/"
	}
	return strings.HasPrefix(current, item.URLPath)
}

// pageURL links to a listing page of the current URL, keeping the category filter.
func pageURL(base, category string, page int) string {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if encoded := q.Encode(); encoded != "" {
		return base + "?" + encoded
	}
	return base
}

func categoryURL(base, category string) string {
	return pageURL(base, category, 1)
}

// isChecked reports whether a choice was selected in a re-rendered form. value holds the
// submitted values joined with ", " as stored by the form service.
func isChecked(value, choice string) bool {
	for _, part := range strings.Split(value, ", ") {
		if part == choice {
			return true
		}
	}
	return false
}
