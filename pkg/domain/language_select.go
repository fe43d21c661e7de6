package domain

// LanguageSelectBlock lets the user pick a language. Its presence makes the flow
// multilingual: every text must then be translated to all supported languages.
// At most one such block is allowed per flow.
type LanguageSelectBlock struct {
	BlockID                     string                      `json:"block_id"`
	MenuConfig                  LanguageSelectionMenuConfig `json:"menu_config"`
	SupportedLanguages          []string                    `json:"supported_languages"`
	DefaultLanguage             string                      `json:"default_language"`
	LanguageSelectedNextBlockID *string                     `json:"language_selected_next_block_id"`
	NextBlockID                 *string                     `json:"next_block_id,omitempty"`
}

func (b *LanguageSelectBlock) ID() string      { return b.BlockID }
func (b *LanguageSelectBlock) Kind() BlockKind { return BlockLanguageSelect }

func (b *LanguageSelectBlock) PossibleNextBlockIDs() []string {
	return nextIDs(b.LanguageSelectedNextBlockID, b.NextBlockID)
}

type LanguageSelectionMenuConfig struct {
	// Prompt is keyed by language code. The wire name keeps the backend's spelling.
	Prompt       map[string]string `json:"propmt"`
	IsBlocking   bool              `json:"is_blocking"`
	EmojiButtons bool              `json:"emoji_buttons"`
}
