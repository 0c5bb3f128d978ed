package runtimeconfig

import (
	"slices"

	"github.com/goodsign/monday"
)

// IsSupportedLocale reports whether monday can render dates for locale.
func IsSupportedLocale(locale string) bool {
	return slices.Contains(monday.ListLocales(), monday.Locale(locale))
}
