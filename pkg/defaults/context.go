package defaults

import (
	"encoding/json"
	"errors"

	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/i18n"
	"github.com/google/uuid"
)

// ErrMissingID is returned when a factory is called without a node id.
var ErrMissingID = errors.New("node id is required")

// LanguageConfig describes the languages of a multilingual flow.
type LanguageConfig struct {
	SupportedLanguageCodes []string `json:"supported_language_codes"`
	DefaultLanguageCode    string   `json:"default_language_code"`
}

// LanguageConfigFromFlow derives the language configuration from the flow's language
// selection block, or returns nil for a monolingual flow.
func LanguageConfigFromFlow(flow *domain.UserFlowConfig) *LanguageConfig {
	if flow == nil {
		return nil
	}
	ls := flow.LanguageSelectBlock()
	if ls == nil {
		return nil
	}
	return &LanguageConfig{
		SupportedLanguageCodes: append([]string{}, ls.SupportedLanguages...),
		DefaultLanguageCode:    ls.DefaultLanguage,
	}
}

// Context carries everything a factory may depend on.
type Context struct {
	ID         string
	T          i18n.Translator
	LangConfig *LanguageConfig
	Current    *domain.UserFlowConfig
	Locale     i18n.Locale
	Prefilled  domain.PrefilledMessages
}

func (c Context) translate(key string) string {
	t := c.T
	if t == nil {
		t = i18n.Default().Translator(c.Locale)
	}
	return t(key)
}

// text localizes a plain default value.
func (c Context) text(s string) domain.LocalizableText {
	if c.LangConfig == nil {
		return domain.Text(s)
	}
	return domain.SameInAll(c.LangConfig.SupportedLanguageCodes, s)
}

// prefilled looks up a prefilled message. A multilingual flow gets every supported
// language from the catalog; otherwise the UI locale is used with an English fallback.
// Missing entries are empty strings.
func (c Context) prefilled(key PrefillableKey) domain.LocalizableText {
	byLang := c.Prefilled[string(key)]
	if c.LangConfig != nil {
		m := make(map[string]string, len(c.LangConfig.SupportedLanguageCodes))
		for _, code := range c.LangConfig.SupportedLanguageCodes {
			m[code] = byLang[code]
		}
		return domain.Multilang(m)
	}
	if s, ok := byLang[string(c.Locale)]; ok {
		return domain.Text(s)
	}
	return domain.Text(byLang[string(i18n.DefaultLocale)])
}

// PrefillableKey names an entry of the prefilled message catalog.
type PrefillableKey string

const (
	AntiSpamWarning         PrefillableKey = "anti_spam_warning"
	FieldIsSkippable        PrefillableKey = "field_is_skippable"
	FieldIsNotSkippable     PrefillableKey = "field_is_not_skippable"
	PleaseEnterCorrectValue PrefillableKey = "please_enter_correct_value"
	UnsupportedCommand      PrefillableKey = "unsupported_command"
	CancelCommandIs         PrefillableKey = "cancel_command_is"
)

// NewNodeID generates a fresh node id of the form "<kind>-<uuid>".
func NewNodeID(kind string) string {
	return kind + "-" + uuid.NewString()
}

// GenerateFormName returns a fresh "form-<uuid>" name.
func GenerateFormName() string {
	return "form-" + uuid.NewString()
}

// Node is a factory product: exactly one of Entrypoint and Block is set.
type Node struct {
	Entrypoint *domain.EntryPointConfig
	Block      *domain.BlockConfig
}

func entrypointNode(e domain.ConcreteEntryPoint) Node {
	cfg := domain.NewEntryPoint(e)
	return Node{Entrypoint: &cfg}
}

func blockNode(b domain.ConcreteBlock) Node {
	cfg := domain.NewBlock(b)
	return Node{Block: &cfg}
}

// ID returns the node's entrypoint or block id.
func (n Node) ID() (string, error) {
	if n.Entrypoint != nil {
		return domain.GetEntrypointID(*n.Entrypoint)
	}
	if n.Block != nil {
		return domain.GetBlockID(*n.Block)
	}
	return "", &domain.EmptyUnionError{Union: "Node", Value: n}
}

// MarshalJSON emits the wrapped union config.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.Entrypoint != nil {
		return json.Marshal(n.Entrypoint)
	}
	if n.Block != nil {
		return json.Marshal(n.Block)
	}
	return nil, &domain.EmptyUnionError{Union: "Node", Value: n}
}
