package folio

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"github.com/ncruces/go-strftime"
	"golang.org/x/text/language"
)

// Date layouts accepted in DATE-like header values, most specific first
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("cannot parse empty string as date")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date string: %s", value)
}

// FormatDate parses value as a date and formats it with a strftime pattern.
// A non-empty locale (BCP 47 or POSIX style, e.g. "pt_BR.UTF-8") translates
// month and day names when the locale is known.
func FormatDate(value, format, locale string) (string, error) {
	t, err := parseDate(value)
	if err != nil {
		return "", err
	}

	if loc, ok := dateLocale(locale); ok {
		if layout, err := strftime.Layout(format); err == nil {
			return monday.Format(t, layout, loc), nil
		}
	}
	return strftime.Format(format, t), nil
}

func dateLocale(name string) (monday.Locale, bool) {
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	region, _ := tag.Region()

	want := monday.Locale(base.String() + "_" + region.String())
	var fallback monday.Locale
	for _, loc := range monday.ListLocales() {
		if loc == want {
			return loc, true
		}
		if fallback == "" && strings.HasPrefix(string(loc), base.String()+"_") {
			fallback = loc
		}
	}
	if fallback == "" {
		return "", false
	}
	return fallback, true
}
