package display

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tidwall/gjson"
)

// NodeTypeKey classifies canvas nodes.
type NodeTypeKey string

const (
	NodeCommand        NodeTypeKey = "command"
	NodeContent        NodeTypeKey = "content"
	NodeHumanOperator  NodeTypeKey = "human_operator"
	NodeLanguageSelect NodeTypeKey = "language_select"
	NodeMenu           NodeTypeKey = "menu"
	NodeForm           NodeTypeKey = "form"
	NodeInfo           NodeTypeKey = "info"
)

// NodeTypeKeys lists every key, in classification order followed by info.
var NodeTypeKeys = []NodeTypeKey{
	NodeCommand,
	NodeContent,
	NodeHumanOperator,
	NodeLanguageSelect,
	NodeMenu,
	NodeForm,
	NodeInfo,
}

// ParseNodeTypeKey validates a node type key.
func ParseNodeTypeKey(s string) (NodeTypeKey, error) {
	for _, k := range NodeTypeKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown node type %q", s)
}

// classified are the recognized variant keys in classification order.
var classified = []NodeTypeKey{
	NodeCommand,
	NodeContent,
	NodeHumanOperator,
	NodeLanguageSelect,
	NodeMenu,
	NodeForm,
}

// GetNodeTypeKey classifies a block or entrypoint config. It accepts the union wrappers,
// their concrete variants, a decoded JSON object (map[string]any) or raw JSON bytes.
// Catch-all and regex entrypoints, error blocks and empty unions are not classified.
func GetNodeTypeKey(v any) (NodeTypeKey, bool) {
	switch c := v.(type) {
	case domain.BlockConfig:
		return GetNodeTypeKey(c.Concrete())
	case *domain.BlockConfig:
		if c == nil {
			return "", false
		}
		return GetNodeTypeKey(c.Concrete())
	case domain.EntryPointConfig:
		return GetNodeTypeKey(c.Concrete())
	case *domain.EntryPointConfig:
		if c == nil {
			return "", false
		}
		return GetNodeTypeKey(c.Concrete())
	case *domain.CommandEntryPoint:
		return NodeCommand, c != nil
	case *domain.ContentBlock:
		return NodeContent, c != nil
	case *domain.HumanOperatorBlock:
		return NodeHumanOperator, c != nil
	case *domain.LanguageSelectBlock:
		return NodeLanguageSelect, c != nil
	case *domain.MenuBlock:
		return NodeMenu, c != nil
	case *domain.FormBlock:
		return NodeForm, c != nil
	case map[string]any:
		for _, k := range classified {
			if c[string(k)] != nil {
				return k, true
			}
		}
	case json.RawMessage:
		return classifyRaw(c)
	case []byte:
		return classifyRaw(c)
	}
	return "", false
}

func classifyRaw(data []byte) (NodeTypeKey, bool) {
	obj := gjson.ParseBytes(data)
	if !obj.IsObject() {
		return "", false
	}
	for _, k := range classified {
		if v := obj.Get(string(k)); v.Exists() && v.Type != gjson.Null {
			return k, true
		}
	}
	return "", false
}

// Hue is a header hue in degrees, or white.
type Hue struct {
	Degrees float64
	White   bool
}

func (h Hue) String() string {
	if h.White {
		return "white"
	}
	return strconv.FormatFloat(h.Degrees, 'f', -1, 64)
}

func (h Hue) MarshalJSON() ([]byte, error) {
	if h.White {
		return []byte(`"white"`), nil
	}
	return json.Marshal(h.Degrees)
}

// NodeHue maps node types to their header hue.
var NodeHue = map[NodeTypeKey]Hue{
	NodeCommand:        {Degrees: 270.5},
	NodeContent:        {Degrees: 26},
	NodeHumanOperator:  {Degrees: 330},
	NodeLanguageSelect: {Degrees: 195.5},
	NodeMenu:           {Degrees: 80},
	NodeForm:           {Degrees: 48},
	NodeInfo:           {White: true},
}

// HeaderColor renders a hue as a CSS hsl() color.
func HeaderColor(h Hue) string {
	if h.White {
		return "hsl(0, 0%, 90%)"
	}
	return fmt.Sprintf("hsl(%s, 70%%, 70%%)", h)
}

// HeaderColorHex renders the same color as HeaderColor in #rrggbb form, for terminals and
// exports that cannot take hsl().
func HeaderColorHex(h Hue) string {
	if h.White {
		return colorful.Hsl(0, 0, 0.9).Hex()
	}
	return colorful.Hsl(h.Degrees, 0.7, 0.7).Hex()
}

// NodeTitleKey maps node types to their i18n title key.
var NodeTitleKey = map[NodeTypeKey]string{
	NodeCommand:        "studio.node_titles.command",
	NodeContent:        "studio.node_titles.content",
	NodeHumanOperator:  "studio.node_titles.human_operator",
	NodeLanguageSelect: "studio.node_titles.language_select",
	NodeMenu:           "studio.node_titles.menu",
	NodeForm:           "studio.node_titles.form",
	NodeInfo:           "studio.node_titles.bot_info",
}

// NodeIcon maps node types to icon identifiers of the editor's icon set.
var NodeIcon = map[NodeTypeKey]string{
	NodeCommand:        "CodeOutline",
	NodeContent:        "NewspaperSolid",
	NodeHumanOperator:  "UserHeadsetSolid",
	NodeLanguageSelect: "GlobeSolid",
	NodeMenu:           "CodeForkSolid",
	NodeForm:           "ClipboardSolid",
	NodeInfo:           "InfoCircleSolid",
}
