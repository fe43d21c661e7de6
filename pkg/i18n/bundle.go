package i18n

import (
	"embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var catalogFS embed.FS

// Translator resolves a message key to text.
type Translator func(key string) string

// Bundle holds flattened catalogs per locale.
type Bundle struct {
	catalogs map[Locale]map[string]string
}

// NewBundle parses the embedded catalogs.
func NewBundle() (*Bundle, error) {
	b := &Bundle{catalogs: make(map[Locale]map[string]string, len(Supported))}
	for _, loc := range Supported {
		data, err := catalogFS.ReadFile("locales/" + string(loc) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read %s catalog: %w", loc, err)
		}
		catalog, err := ParseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s catalog: %w", loc, err)
		}
		b.catalogs[loc] = catalog
	}
	return b, nil
}

var defaultBundle = sync.OnceValues(NewBundle)

// Default returns the process-wide bundle. The embedded catalogs are part of the binary,
// so a parse failure is a build defect and panics.
func Default() *Bundle {
	b, err := defaultBundle()
	if err != nil {
		panic(err)
	}
	return b
}

// ParseCatalog flattens a nested YAML document into dotted keys.
func ParseCatalog(data []byte) (map[string]string, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if err := flatten("", tree, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case string:
			out[key] = val
		case nil:
			out[key] = ""
		default:
			return fmt.Errorf("key %q: unsupported value %T", key, v)
		}
	}
	return nil
}

// Lookup returns the message for key in loc without fallback.
func (b *Bundle) Lookup(loc Locale, key string) (string, bool) {
	msg, ok := b.catalogs[loc][key]
	return msg, ok
}

// Translator returns a Translator for loc, falling back to English and then to the key.
func (b *Bundle) Translator(loc Locale) Translator {
	return func(key string) string {
		if msg, ok := b.Lookup(loc, key); ok {
			return msg
		}
		if msg, ok := b.Lookup(DefaultLocale, key); ok {
			return msg
		}
		return key
	}
}

// MissingKeys lists English keys absent from the catalog of loc, sorted.
func (b *Bundle) MissingKeys(loc Locale) []string {
	var missing []string
	for key := range b.catalogs[DefaultLocale] {
		if _, ok := b.catalogs[loc][key]; !ok {
			missing = append(missing, key)
		}
	}
	slices.Sort(missing)
	return missing
}
