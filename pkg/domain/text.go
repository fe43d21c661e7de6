package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// LocalizableText is a user-facing string. In a monolingual flow it is a plain string;
// once the flow contains a language selection block it maps language codes to strings.
type LocalizableText struct {
	plain string
	multi map[string]string
}

// Text creates a plain (monolingual) text.
func Text(s string) LocalizableText {
	return LocalizableText{plain: s}
}

// Multilang creates a per-language text. The map is copied.
func Multilang(translations map[string]string) LocalizableText {
	m := make(map[string]string, len(translations))
	maps.Copy(m, translations)
	return LocalizableText{multi: m}
}

// SameInAll maps every language code to the same string.
func SameInAll(codes []string, s string) LocalizableText {
	m := make(map[string]string, len(codes))
	for _, code := range codes {
		m[code] = s
	}
	return LocalizableText{multi: m}
}

// IsMultilang reports whether the text carries per-language values.
func (t LocalizableText) IsMultilang() bool {
	return t.multi != nil
}

// Plain returns the monolingual value; it is empty for multilingual texts.
func (t LocalizableText) Plain() string {
	return t.plain
}

// Languages returns the language codes of a multilingual text, sorted.
func (t LocalizableText) Languages() []string {
	return slices.Sorted(maps.Keys(t.multi))
}

// In returns the value for a language. Plain texts are the same in every language.
func (t LocalizableText) In(lang string) (string, bool) {
	if t.multi == nil {
		return t.plain, true
	}
	s, ok := t.multi[lang]
	return s, ok
}

// Translations returns a copy of the per-language values, or nil for a plain text.
func (t LocalizableText) Translations() map[string]string {
	if t.multi == nil {
		return nil
	}
	m := make(map[string]string, len(t.multi))
	maps.Copy(m, t.multi)
	return m
}

func (t LocalizableText) String() string {
	if t.multi == nil {
		return t.plain
	}
	return fmt.Sprint(t.multi)
}

func (t LocalizableText) MarshalJSON() ([]byte, error) {
	if t.multi != nil {
		return json.Marshal(t.multi)
	}
	return json.Marshal(t.plain)
}

func (t *LocalizableText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("localizable text: %w", err)
		}
		*t = LocalizableText{multi: m}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("localizable text: expected string or object: %w", err)
	}
	*t = LocalizableText{plain: s}
	return nil
}
