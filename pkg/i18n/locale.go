package i18n

import (
	"os"
	"strings"
)

// Locale is a UI language code.
type Locale string

const (
	EN Locale = "en"
	RU Locale = "ru"

	DefaultLocale = EN
)

// Supported lists the locales with an embedded catalog.
var Supported = []Locale{EN, RU}

// ParseLocale accepts a supported locale code, case-insensitively.
func ParseLocale(s string) (Locale, bool) {
	loc := Locale(strings.ToLower(strings.TrimSpace(s)))
	for _, l := range Supported {
		if l == loc {
			return l, true
		}
	}
	return "", false
}

// ResolveLocale applies the fallback chain: a valid stored preference, then the
// language prefix of envLang (e.g. "ru_RU.UTF-8"), then DefaultLocale.
func ResolveLocale(stored string, ok bool, envLang string) Locale {
	if ok {
		if loc, valid := ParseLocale(stored); valid {
			return loc
		}
	}
	if prefix, _, _ := strings.Cut(envLang, "_"); prefix != "" {
		prefix, _, _ = strings.Cut(prefix, ".")
		prefix, _, _ = strings.Cut(prefix, "-")
		if loc, valid := ParseLocale(prefix); valid {
			return loc
		}
	}
	return DefaultLocale
}

// EnvLanguage returns the language setting of the process environment, in POSIX
// precedence order.
func EnvLanguage() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
