package markup

import (
	"time"

	"github.com/goodsign/monday"
)

// Date formats accepted by FormatDate.
const (
	DateLong       = "long"
	DateLongMonth  = "long_month"
	DateShort      = "short"
	DateShortMonth = "short_month"
	DateYear       = "year"
	DateMonth      = "month"
	DateDay        = "day"
	DateTime       = "time"
)

const timeLayout = "3:04:05 PM"

var dateLayouts = map[string]string{
	DateLong:       "Monday, January 2, 2006",
	DateLongMonth:  "January 2, 2006",
	DateShort:      "Mon, Jan 2, 2006",
	DateShortMonth: "Jan 2, 2006",
	DateYear:       "2006",
	DateMonth:      "January",
	DateDay:        "2",
}

// FormatDate renders t in the en_US locale. Unknown formats fall back to
// long. withTime appends " - <time>"; the time format ignores it.
func FormatDate(t time.Time, format string, withTime bool) string {
	return FormatDateLocale(t, format, withTime, monday.LocaleEnUS)
}

// FormatDateLocale is FormatDate for an explicit locale.
func FormatDateLocale(t time.Time, format string, withTime bool, locale monday.Locale) string {
	if t.IsZero() {
		t = time.Now()
	}
	if locale == "" {
		locale = monday.LocaleEnUS
	}

	clock := monday.Format(t, timeLayout, locale)
	if format == DateTime {
		return clock
	}

	layout, ok := dateLayouts[format]
	if !ok {
		layout = dateLayouts[DateLong]
	}
	date := monday.Format(t, layout, locale)
	if !withTime {
		return date
	}
	return date + " - " + clock
}

// LongDateFormatter returns the formatter used for {{today}}.
func LongDateFormatter(locale monday.Locale) func(time.Time) string {
	return func(t time.Time) string {
		return FormatDateLocale(t, DateLong, true, locale)
	}
}
