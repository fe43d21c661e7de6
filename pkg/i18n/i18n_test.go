package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundle_Translator(t *testing.T) {
	b, err := NewBundle()
	require.NoError(t, err)

	en := b.Translator(EN)
	ru := b.Translator(RU)

	assert.Equal(t, "Text message", en("studio.defaults.text_content"))
	assert.Equal(t, "Текстовое сообщение", ru("studio.defaults.text_content"))

	// ru lacks this key and falls back to English.
	assert.Equal(t, "Token is valid and not used by other bots", ru("cli.token.unused"))
	assert.Equal(t, []string{"cli.token.unused"}, b.MissingKeys(RU))

	assert.Equal(t, "no.such.key", en("no.such.key"))
}

func TestParseCatalog(t *testing.T) {
	catalog, err := ParseCatalog([]byte("a:\n  b: one\n  c:\n    d: two\ne: three\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.b": "one", "a.c.d": "two", "e": "three"}, catalog)

	_, err = ParseCatalog([]byte("a:\n  - list\n"))
	assert.Error(t, err)
}

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		name    string
		stored  string
		ok      bool
		envLang string
		want    Locale
	}{
		{"stored wins", "ru", true, "en_US.UTF-8", RU},
		{"stored unsupported", "de", true, "ru_RU.UTF-8", RU},
		{"not stored", "", false, "ru_RU.UTF-8", RU},
		{"bcp47 env", "", false, "ru-RU", RU},
		{"env unsupported", "", false, "fr_FR.UTF-8", EN},
		{"nothing", "", false, "", EN},
		{"posix C locale", "", false, "C.UTF-8", EN},
		{"stored ignored when not ok", "ru", false, "", EN},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveLocale(tc.stored, tc.ok, tc.envLang))
		})
	}
}

func TestParseLocale(t *testing.T) {
	loc, ok := ParseLocale(" RU ")
	assert.True(t, ok)
	assert.Equal(t, RU, loc)

	_, ok = ParseLocale("uk")
	assert.False(t, ok)
}
