// Package graph exports a user flow as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/bots-against-war/moduli/pkg/display"
	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/i18n"
)

// GraphOverlay marks nodes to highlight on top of the flow.
type GraphOverlay struct {
	InvalidNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart from a user flow.
// Shapes follow the node role:
// - Entrypoint: ((Circle))
// - Human operator: [[Subroutine]]
// - Menu, form, language selection (user input): [/Parallelogram/]
// - Default: [Rectangle]
// Nodes are colored with their editor header color. Titles go through t; a nil t uses English.
func GenerateMermaid(flow *domain.UserFlowConfig, t i18n.Translator, overlay *GraphOverlay) string {
	if t == nil {
		t = i18n.Default().Translator(i18n.EN)
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	used := make(map[display.NodeTypeKey]bool)
	var classes []string

	for _, e := range flow.Entrypoints {
		ep := e.Concrete()
		if ep == nil {
			continue
		}
		safeID := sanitizeMermaidID(ep.ID())
		fmt.Fprintf(&sb, "    %s((\"%s\"))\n", safeID, nodeLabel(t, e, entrypointDetail(ep)))
		if key, ok := display.GetNodeTypeKey(e); ok {
			used[key] = true
			classes = append(classes, fmt.Sprintf("    class %s %s;\n", safeID, key))
		}
		if next := ep.NextBlock(); next != nil {
			fmt.Fprintf(&sb, "    %s --> %s\n", safeID, sanitizeMermaidID(*next))
		}
	}

	for _, b := range flow.Blocks {
		block := b.Concrete()
		if block == nil {
			continue
		}
		safeID := sanitizeMermaidID(block.ID())

		opener, closer := "[", "]"
		switch block.Kind() {
		case domain.BlockHumanOperator:
			opener, closer = "[[", "]]"
		case domain.BlockMenu, domain.BlockForm, domain.BlockLanguageSelect:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, nodeLabel(t, b, block.ID()), closer)
		if key, ok := display.GetNodeTypeKey(b); ok {
			used[key] = true
			classes = append(classes, fmt.Sprintf("    class %s %s;\n", safeID, key))
		}

		for _, edge := range blockEdges(block) {
			arrow := "-->"
			if edge.label != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(edge.label))
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(edge.to))
		}
	}

	if len(used) > 0 {
		sb.WriteString("\n    %% Node Colors\n")
		for _, key := range display.NodeTypeKeys {
			if used[key] {
				fmt.Fprintf(&sb, "    classDef %s fill:%s,stroke:#333,color:#000;\n", key, display.HeaderColorHex(display.NodeHue[key]))
			}
		}
		for _, c := range classes {
			sb.WriteString(c)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef invalid fill:#ffcdd2,stroke:#b71c1c,stroke-width:3px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		invalidSet := make(map[string]bool)
		for _, id := range overlay.InvalidNodes {
			safeID := sanitizeMermaidID(id)
			if !invalidSet[safeID] && safeID != "" {
				invalidSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s invalid;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

type edge struct {
	to    string
	label string
}

func blockEdges(block domain.ConcreteBlock) []edge {
	var edges []edge
	switch b := block.(type) {
	case *domain.MenuBlock:
		var walk func(m *domain.Menu)
		walk = func(m *domain.Menu) {
			for _, item := range m.Items {
				if item.NextBlockID != nil {
					edges = append(edges, edge{to: *item.NextBlockID, label: textLabel(item.Label)})
				}
				if item.Submenu != nil {
					walk(item.Submenu)
				}
			}
		}
		walk(&b.Menu)
	case *domain.FormBlock:
		if b.FormCompletedNextBlockID != nil {
			edges = append(edges, edge{to: *b.FormCompletedNextBlockID, label: "completed"})
		}
		if b.FormCancelledNextBlockID != nil {
			edges = append(edges, edge{to: *b.FormCancelledNextBlockID, label: "cancelled"})
		}
	case *domain.LanguageSelectBlock:
		if b.LanguageSelectedNextBlockID != nil {
			edges = append(edges, edge{to: *b.LanguageSelectedNextBlockID, label: "selected"})
		}
		if b.NextBlockID != nil {
			edges = append(edges, edge{to: *b.NextBlockID})
		}
	default:
		for _, id := range block.PossibleNextBlockIDs() {
			edges = append(edges, edge{to: id})
		}
	}
	return edges
}

// nodeLabel is the node's title followed by a detail line.
func nodeLabel(t i18n.Translator, v any, detail string) string {
	title := ""
	if key, ok := display.GetNodeTypeKey(v); ok {
		title = t(display.NodeTitleKey[key])
	} else {
		switch c := v.(type) {
		case domain.EntryPointConfig:
			if ep := c.Concrete(); ep != nil {
				title = string(ep.Kind())
			}
		case domain.BlockConfig:
			if b := c.Concrete(); b != nil {
				title = string(b.Kind())
			}
		}
	}
	if detail == "" {
		return escapeLabel(title)
	}
	return escapeLabel(title) + " <br/> " + escapeLabel(detail)
}

func entrypointDetail(ep domain.ConcreteEntryPoint) string {
	switch e := ep.(type) {
	case *domain.CommandEntryPoint:
		return "/" + e.Command
	case *domain.RegexMatchEntryPoint:
		return e.Regex
	}
	return ""
}

// textLabel picks a single representative string of a localizable text.
func textLabel(text domain.LocalizableText) string {
	if !text.IsMultilang() {
		return text.Plain()
	}
	langs := text.Languages()
	if len(langs) == 0 {
		return ""
	}
	s, _ := text.In(langs[0])
	return s
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
