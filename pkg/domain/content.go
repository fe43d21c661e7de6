package domain

// TextMarkup selects how a text is rendered by Telegram.
type TextMarkup string

const (
	MarkupNone     TextMarkup = "none"
	MarkupHTML     TextMarkup = "html"
	MarkupMarkdown TextMarkup = "markdown"
)

// ContentBlock sends static content in one or several messages, then immediately
// continues to the next block.
type ContentBlock struct {
	BlockID     string    `json:"block_id"`
	Contents    []Content `json:"contents"`
	NextBlockID *string   `json:"next_block_id"`
}

func (b *ContentBlock) ID() string      { return b.BlockID }
func (b *ContentBlock) Kind() BlockKind { return BlockContent }

func (b *ContentBlock) PossibleNextBlockIDs() []string {
	return nextIDs(b.NextBlockID)
}

// Content is one message: optional text plus attachments.
type Content struct {
	Text        *ContentText        `json:"text"`
	Attachments []ContentAttachment `json:"attachments"`
}

type ContentText struct {
	Text   LocalizableText `json:"text"`
	Markup TextMarkup      `json:"markup"`
}

// ContentAttachment references an uploaded image (base64 payload or media store URL).
type ContentAttachment struct {
	Image    *string `json:"image"`
	Filename string  `json:"filename,omitempty"`
}
