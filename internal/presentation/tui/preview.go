package tui

import (
	"fmt"
	"strings"

	"github.com/bots-against-war/moduli/pkg/domain"
)

// PreviewMarkdown describes what the user sees when the flow enters block, as markdown.
// Multilingual texts are shown in lang, falling back to the first available language.
func PreviewMarkdown(block domain.ConcreteBlock, lang string) string {
	var sb strings.Builder
	switch b := block.(type) {
	case *domain.ContentBlock:
		for i, content := range b.Contents {
			if i > 0 {
				sb.WriteString("\n---\n\n")
			}
			if content.Text != nil {
				sb.WriteString(messageText(content.Text.Text, content.Text.Markup, lang))
				sb.WriteString("\n\n")
			}
			for _, a := range content.Attachments {
				name := a.Filename
				if name == "" {
					name = "image"
				}
				fmt.Fprintf(&sb, "🖼 *%s*\n\n", name)
			}
		}
		if b.NextBlockID != nil {
			fmt.Fprintf(&sb, "→ `%s`\n", *b.NextBlockID)
		}
	case *domain.MenuBlock:
		writeMenu(&sb, &b.Menu, lang, 0)
	case *domain.FormBlock:
		fmt.Fprintf(&sb, "## %s\n\n", b.FormName)
		if start := localized(b.Messages.FormStart, lang); start != "" {
			sb.WriteString(start + "\n\n")
		}
		n := 0
		writeMembers(&sb, b.Members, lang, 0, &n)
		sb.WriteString("\n")
		if b.FormCompletedNextBlockID != nil {
			fmt.Fprintf(&sb, "✓ → `%s`\n", *b.FormCompletedNextBlockID)
		}
		if b.FormCancelledNextBlockID != nil {
			fmt.Fprintf(&sb, "✗ → `%s`\n", *b.FormCancelledNextBlockID)
		}
	case *domain.LanguageSelectBlock:
		prompt := b.MenuConfig.Prompt[lang]
		if prompt == "" {
			prompt = b.MenuConfig.Prompt[b.DefaultLanguage]
		}
		if prompt != "" {
			sb.WriteString(prompt + "\n\n")
		}
		for _, code := range b.SupportedLanguages {
			if code == b.DefaultLanguage {
				fmt.Fprintf(&sb, "- [%s] *(default)*\n", code)
			} else {
				fmt.Fprintf(&sb, "- [%s]\n", code)
			}
		}
	case *domain.HumanOperatorBlock:
		cfg := b.FeedbackHandlerConfig
		chat := "not set"
		if cfg.AdminChatID != nil {
			chat = fmt.Sprint(*cfg.AdminChatID)
		}
		fmt.Fprintf(&sb, "Messages are forwarded to admin chat `%s`.\n\n", chat)
		if ok := localized(cfg.MessagesToUser.ForwardedToAdminOK, lang); ok != "" {
			fmt.Fprintf(&sb, "> %s\n", ok)
		}
	case *domain.ErrorBlock:
		sb.WriteString("Raises an error.\n")
	}
	return sb.String()
}

func writeMenu(sb *strings.Builder, m *domain.Menu, lang string, level int) {
	indent := strings.Repeat("  ", level)
	if text := localized(m.Text, lang); text != "" {
		if level == 0 {
			sb.WriteString(messageText(m.Text, m.Markup, lang) + "\n\n")
		} else {
			fmt.Fprintf(sb, "%s*%s*\n", indent, text)
		}
	}
	for _, item := range m.Items {
		label := localized(item.Label, lang)
		switch {
		case item.NextBlockID != nil:
			fmt.Fprintf(sb, "%s- [%s] → `%s`\n", indent, label, *item.NextBlockID)
		case item.LinkURL != nil:
			fmt.Fprintf(sb, "%s- [%s](%s)\n", indent, label, *item.LinkURL)
		case item.Submenu != nil:
			fmt.Fprintf(sb, "%s- [%s] ▸\n", indent, label)
			writeMenu(sb, item.Submenu, lang, level+1)
		default:
			fmt.Fprintf(sb, "%s- [%s]\n", indent, label)
		}
	}
}

func writeMembers(sb *strings.Builder, members []domain.BranchingFormMemberConfig, lang string, level int, n *int) {
	indent := strings.Repeat("  ", level)
	for _, m := range members {
		if f := m.Field(); f != nil {
			*n++
			switch field := f.Concrete().(type) {
			case *domain.PlainTextFormField:
				fmt.Fprintf(sb, "%s%d. %s%s\n", indent, *n, localized(field.Prompt, lang), requiredMark(field.IsRequired))
			case *domain.SingleSelectFormField:
				fmt.Fprintf(sb, "%s%d. %s%s\n", indent, *n, localized(field.Prompt, lang), requiredMark(field.IsRequired))
				for _, opt := range field.Options {
					fmt.Fprintf(sb, "%s   - [%s]\n", indent, localized(opt.Label, lang))
				}
			}
			continue
		}
		if br := m.Branch(); br != nil {
			cond := "*"
			if br.ConditionMatchValue != nil {
				cond = *br.ConditionMatchValue
			}
			fmt.Fprintf(sb, "%s- if `%s`:\n", indent, cond)
			writeMembers(sb, br.Members, lang, level+1, n)
		}
	}
}

func requiredMark(required bool) string {
	if required {
		return " *"
	}
	return ""
}

// messageText renders a Telegram message text. HTML markup is shown verbatim in a code block.
func messageText(text domain.LocalizableText, markup domain.TextMarkup, lang string) string {
	s := localized(text, lang)
	if markup == domain.MarkupHTML {
		return "```html\n" + s + "\n```"
	}
	return s
}

func localized(text domain.LocalizableText, lang string) string {
	if s, ok := text.In(lang); ok {
		return s
	}
	for _, code := range text.Languages() {
		if s, _ := text.In(code); s != "" {
			return s
		}
	}
	return ""
}
