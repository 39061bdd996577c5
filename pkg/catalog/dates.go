package catalog

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is the locale of the original repository audience.
const DefaultLocale = "zh-CN"

// EmptyDate is displayed for packages without a published date.
const EmptyDate = "-"

// Supported display locales; the first entry is the fallback.
var (
	dateLocales = []string{
		"zh-CN",
		"en-US",
		"en-GB",
		"ja-JP",
		"ko-KR",
		"de-DE",
		"fr-FR",
		"es-ES",
		"it-IT",
		"ru-RU",
	}
	dateLayouts = []string{
		"2006/1/2",
		"1/2/2006",
		"02/01/2006",
		"2006/1/2",
		"2006. 1. 2.",
		"02.01.2006",
		"02/01/2006",
		"2/1/2006",
		"2/1/2006",
		"02.01.2006",
	}
	dateMatcher = newDateMatcher()
)

func newDateMatcher() language.Matcher {
	tags := make([]language.Tag, len(dateLocales))
	for i, l := range dateLocales {
		tags[i] = language.MustParse(l)
	}
	return language.NewMatcher(tags)
}

// Layouts accepted for publishedDate values.
var inputLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04",
	"2006/01/02",
	"2006/1/2",
}

// DateFormatter renders publishedDate values for one locale.
type DateFormatter struct {
	locale string
	layout string
}

// NewDateFormatter matches locale (a BCP 47 tag) against the supported
// display locales. Unknown or invalid tags fall back to simplified Chinese.
func NewDateFormatter(locale string) *DateFormatter {
	tags := parseTags(locale)
	_, idx, conf := dateMatcher.Match(tags...)
	if conf == language.No || onlyUndetermined(tags) {
		idx = 0
	}
	return &DateFormatter{locale: dateLocales[idx], layout: dateLayouts[idx]}
}

// DefaultDateFormatter formats for DefaultLocale.
func DefaultDateFormatter() *DateFormatter {
	return NewDateFormatter(DefaultLocale)
}

func parseTags(locale string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return []language.Tag{language.Und}
	}
	return tags
}

func onlyUndetermined(tags []language.Tag) bool {
	for _, t := range tags {
		if t != language.Und {
			return false
		}
	}
	return true
}

// Locale returns the matched display locale as listed in the supported set,
// for example "zh-CN".
func (f *DateFormatter) Locale() string {
	return f.locale
}

// Format renders a published date. Empty input shows EmptyDate and input in
// an unknown format is returned unchanged.
func (f *DateFormatter) Format(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return EmptyDate
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(f.layout)
		}
	}
	return s
}

var stampPattern = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})(\d{2})(\d{2})`)

// FormatStamp rewrites the first YYYYMMDDHHmm run of a cachechk token as
// "YYYY-MM-DD HH:mm". Anything else is kept.
func FormatStamp(stamp string) string {
	loc := stampPattern.FindStringSubmatchIndex(stamp)
	if loc == nil {
		return stamp
	}
	formatted := stampPattern.ExpandString(nil, "$1-$2-$3 $4:$5", stamp, loc)
	return stamp[:loc[0]] + string(formatted) + stamp[loc[1]:]
}
