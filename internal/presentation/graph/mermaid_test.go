package graph_test

import (
	"strings"
	"testing"

	"github.com/bots-against-war/moduli/internal/presentation/graph"
	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/i18n"
)

func id(s string) *string { return &s }

func flowOf(entrypoints []domain.ConcreteEntryPoint, blocks ...domain.ConcreteBlock) *domain.UserFlowConfig {
	flow := domain.NewUserFlowConfig()
	for _, e := range entrypoints {
		flow.Entrypoints = append(flow.Entrypoints, domain.NewEntryPoint(e))
	}
	for _, b := range blocks {
		flow.Blocks = append(flow.Blocks, domain.NewBlock(b))
	}
	return flow
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		flow     *domain.UserFlowConfig
		contains []string
		excludes []string
	}{
		{
			name: "Entrypoint Shapes",
			flow: flowOf([]domain.ConcreteEntryPoint{
				&domain.CommandEntryPoint{EntrypointID: "command-start", Command: "start", NextBlockID: id("greeting")},
				&domain.CatchAllEntryPoint{EntrypointID: "catch-all"},
				&domain.RegexMatchEntryPoint{EntrypointID: "regex", Regex: `^help`},
			}),
			contains: []string{
				`command_start(("Command <br/> /start"))`,
				`command_start --> greeting`,
				`catch_all(("catch_all"))`,
				`regex(("regex <br/> ^help"))`,
				`class command_start command;`,
			},
			excludes: []string{
				"class catch_all",
			},
		},
		{
			name: "Block Shapes",
			flow: flowOf(nil,
				&domain.ContentBlock{BlockID: "greeting", NextBlockID: id("operator")},
				&domain.HumanOperatorBlock{BlockID: "operator"},
				&domain.LanguageSelectBlock{BlockID: "lang", LanguageSelectedNextBlockID: id("greeting"), NextBlockID: id("operator")},
				&domain.ErrorBlock{BlockID: "boom"},
			),
			contains: []string{
				`greeting["Message <br/> greeting"]`,
				`greeting --> operator`,
				`operator[["Human operator <br/> operator"]]`,
				`lang[/"Language selection <br/> lang"/]`,
				`lang -- "selected" --> greeting`,
				`lang --> operator`,
				`boom["error <br/> boom"]`,
				`classDef content fill:#`,
				`class lang language_select;`,
			},
		},
		{
			name: "Menu Edges",
			flow: flowOf(nil,
				&domain.MenuBlock{BlockID: "main-menu", Menu: domain.Menu{Items: []domain.MenuItem{
					{Label: domain.Text(`Say "hi"`), NextBlockID: id("greeting")},
					{Label: domain.Text("More"), Submenu: &domain.Menu{Items: []domain.MenuItem{
						{Label: domain.Multilang(map[string]string{"ru": "Оператор", "en": "Operator"}), NextBlockID: id("operator")},
					}}},
					{Label: domain.Text("Site"), LinkURL: id("https://example.org")},
				}}},
			),
			contains: []string{
				`main_menu[/"Menu <br/> main-menu"/]`,
				`main_menu -- "Say 'hi'" --> greeting`,
				`main_menu -- "Operator" --> operator`,
			},
			excludes: []string{
				"Site",
			},
		},
		{
			name: "Form Exits",
			flow: flowOf(nil,
				&domain.FormBlock{BlockID: "form", FormCompletedNextBlockID: id("thanks"), FormCancelledNextBlockID: id("menu")},
			),
			contains: []string{
				`form[/"Form <br/> form"/]`,
				`form -- "completed" --> thanks`,
				`form -- "cancelled" --> menu`,
			},
		},
		{
			name: "ID Sanitization",
			flow: flowOf(nil,
				&domain.ContentBlock{BlockID: "content/1.a b", NextBlockID: id("x-y")},
			),
			contains: []string{
				`content_1_a_b["Message <br/> content/1.a b"]`,
				`content_1_a_b --> x_y`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.flow, nil, nil)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("GenerateMermaid() = \n%v\nwant graph TD header", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnwanted substring: %v", got, unwanted)
				}
			}
		})
	}
}

func TestGenerateMermaid_Translated(t *testing.T) {
	flow := flowOf(nil, &domain.HumanOperatorBlock{BlockID: "operator"})

	got := graph.GenerateMermaid(flow, i18n.Default().Translator(i18n.RU), nil)

	want := `operator[["` + i18n.Default().Translator(i18n.RU)("studio.node_titles.human_operator") + ` <br/> operator"]]`
	if !strings.Contains(got, want) {
		t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	flow := flowOf(nil,
		&domain.ContentBlock{BlockID: "a-1", NextBlockID: id("b")},
		&domain.ContentBlock{BlockID: "b"},
	)

	got := graph.GenerateMermaid(flow, nil, &graph.GraphOverlay{
		InvalidNodes: []string{"a-1", "a-1", ""},
		CurrentNode:  "b",
	})

	if n := strings.Count(got, "class a_1 invalid;"); n != 1 {
		t.Errorf("expected invalid class once, got %d in\n%v", n, got)
	}
	if !strings.Contains(got, "class b current;") {
		t.Errorf("missing current class in\n%v", got)
	}
	if strings.Contains(got, "class  invalid;") {
		t.Errorf("empty id styled in\n%v", got)
	}
}
