package defaults

import (
	"cmp"
	"slices"

	"github.com/bots-against-war/moduli/pkg/display"
	"github.com/bots-against-war/moduli/pkg/domain"
)

// BackLabel is the default label of a menu's back button.
const BackLabel = "⬅️⬅️⬅️"

// MaxMessagesPerMinute is the default anti-spam limit for human operator blocks.
const MaxMessagesPerMinute = 10

// Factory builds the default config of one node kind.
type Factory func(ctx Context) (Node, error)

func requireID(f func(ctx Context) Node) Factory {
	return func(ctx Context) (Node, error) {
		if ctx.ID == "" {
			return Node{}, ErrMissingID
		}
		return f(ctx), nil
	}
}

var (
	CommandEntrypoint = requireID(func(ctx Context) Node {
		return entrypointNode(&domain.CommandEntryPoint{
			EntrypointID: ctx.ID,
			Command:      "command",
			Scope:        domain.ScopePrivate,
		})
	})

	CatchAllEntrypoint = requireID(func(ctx Context) Node {
		return entrypointNode(&domain.CatchAllEntryPoint{EntrypointID: ctx.ID})
	})

	RegexEntrypoint = requireID(func(ctx Context) Node {
		return entrypointNode(&domain.RegexMatchEntryPoint{EntrypointID: ctx.ID})
	})

	ContentBlock = requireID(func(ctx Context) Node {
		return blockNode(&domain.ContentBlock{
			BlockID: ctx.ID,
			Contents: []domain.Content{{
				Text: &domain.ContentText{
					Text:   ctx.text(ctx.translate("studio.defaults.text_content")),
					Markup: domain.MarkupMarkdown,
				},
				Attachments: []domain.ContentAttachment{},
			}},
		})
	})

	HumanOperatorBlock = requireID(func(ctx Context) Node {
		return blockNode(&domain.HumanOperatorBlock{
			BlockID: ctx.ID,
			FeedbackHandlerConfig: domain.FeedbackHandlerConfig{
				AnonymizeUsers:       true,
				MaxMessagesPerMinute: MaxMessagesPerMinute,
				MessagesToUser: domain.MessagesToUser{
					ForwardedToAdminOK: ctx.text(""),
					Throttling:         ctx.prefilled(AntiSpamWarning),
				},
				MessagesToAdmin: domain.MessagesToAdmin{
					CopiedToUserOK:      ctx.translate("studio.defaults.copied_to_user"),
					DeletedMessageOK:    ctx.translate("studio.defaults.deleted_message"),
					CanNotDeleteMessage: ctx.translate("studio.defaults.failed_to_delete"),
				},
				MessageLogToAdminChat: true,
			},
		})
	})

	MenuBlock = requireID(func(ctx Context) Node {
		back := ctx.text(BackLabel)
		return blockNode(&domain.MenuBlock{
			BlockID: ctx.ID,
			Menu: domain.Menu{
				Text:   ctx.text(""),
				Markup: domain.MarkupMarkdown,
				Items:  []domain.MenuItem{},
				Config: domain.MenuConfig{
					Mechanism: LeastFrequentMechanism(ctx.Current),
					BackLabel: &back,
				},
			},
		})
	})

	LanguageSelectBlock = requireID(func(ctx Context) Node {
		return blockNode(&domain.LanguageSelectBlock{
			BlockID: ctx.ID,
			MenuConfig: domain.LanguageSelectionMenuConfig{
				Prompt:       map[string]string{},
				EmojiButtons: true,
			},
			SupportedLanguages: []string{},
		})
	})

	FormBlock = requireID(func(ctx Context) Node {
		return blockNode(&domain.FormBlock{
			BlockID:  ctx.ID,
			FormName: GenerateFormName(),
			Members:  []domain.BranchingFormMemberConfig{},
			Messages: domain.FormMessages{
				FormStart:               ctx.text(""),
				CancelCommandIs:         ctx.prefilled(CancelCommandIs),
				FieldIsSkippable:        ctx.prefilled(FieldIsSkippable),
				FieldIsNotSkippable:     ctx.prefilled(FieldIsNotSkippable),
				PleaseEnterCorrectValue: ctx.prefilled(PleaseEnterCorrectValue),
				UnsupportedCommand:      ctx.prefilled(UnsupportedCommand),
			},
			ResultsExport: domain.FormResultsExport{
				UserAttribution: domain.AttributionNone,
				EchoToUser:      true,
			},
		})
	})

	ErrorBlock = requireID(func(ctx Context) Node {
		return blockNode(&domain.ErrorBlock{BlockID: ctx.ID})
	})
)

// LeastFrequentMechanism picks the menu mechanism used least often by the flow's menus.
// Counts are sorted ascending and stably, so ties go to the mechanism seen first.
// A flow without menus gets inline buttons.
func LeastFrequentMechanism(flow *domain.UserFlowConfig) domain.MenuMechanism {
	if flow == nil {
		return domain.MechanismInlineButtons
	}
	type count struct {
		mechanism domain.MenuMechanism
		n         int
	}
	var counts []count
	for _, m := range flow.MenuBlocks() {
		mech := m.Menu.Config.Mechanism
		i := slices.IndexFunc(counts, func(c count) bool { return c.mechanism == mech })
		if i < 0 {
			counts = append(counts, count{mechanism: mech})
			i = len(counts) - 1
		}
		counts[i].n++
	}
	if len(counts) == 0 {
		return domain.MechanismInlineButtons
	}
	slices.SortStableFunc(counts, func(a, b count) int { return cmp.Compare(a.n, b.n) })
	return counts[0].mechanism
}

var registry = map[string]Factory{
	string(display.NodeCommand):        CommandEntrypoint,
	string(display.NodeContent):        ContentBlock,
	string(display.NodeHumanOperator):  HumanOperatorBlock,
	string(display.NodeLanguageSelect): LanguageSelectBlock,
	string(display.NodeMenu):           MenuBlock,
	string(display.NodeForm):           FormBlock,
	string(domain.EntryPointCatchAll):  CatchAllEntrypoint,
	string(domain.EntryPointRegex):     RegexEntrypoint,
	string(domain.BlockError):          ErrorBlock,
}

// ForNodeType returns the factory of a canvas node type. The info node has none.
func ForNodeType(key display.NodeTypeKey) (Factory, bool) {
	return Lookup(string(key))
}

// Lookup returns a factory by node type or variant key, including the entrypoint and
// block variants without a canvas node type (catch_all, regex, error).
func Lookup(kind string) (Factory, bool) {
	f, ok := registry[kind]
	return f, ok
}

// Kinds lists every name Lookup accepts, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
