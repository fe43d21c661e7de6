/*
Package i18n bootstraps localization for the studio tooling.

Catalogs for the supported locales are embedded as nested YAML and flattened into dotted
keys ("studio.defaults.text_content"). A Translator looks a key up in its locale, falls
back to English, and finally returns the key itself so a missing translation is visible
instead of silently empty.

Locale choice follows an explicit chain, see ResolveLocale: the stored preference (see
ports.LocaleStore), then the environment language, then English.
*/
package i18n
