package domain

import "fmt"

// BotInfoNodeID is the canvas id of the editor's bot info node. It has coordinates but no config.
const BotInfoNodeID = "bot-info-node"

// NodePosition is the canvas position of a node in the editor.
type NodePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UserFlowConfig is the whole bot flow: entrypoints, blocks and their canvas layout.
type UserFlowConfig struct {
	Entrypoints       []EntryPointConfig      `json:"entrypoints"`
	Blocks            []BlockConfig           `json:"blocks"`
	NodeDisplayCoords map[string]NodePosition `json:"node_display_coords"`
}

// NewUserFlowConfig returns an empty flow with non-nil collections.
func NewUserFlowConfig() *UserFlowConfig {
	return &UserFlowConfig{
		Entrypoints:       []EntryPointConfig{},
		Blocks:            []BlockConfig{},
		NodeDisplayCoords: map[string]NodePosition{},
	}
}

// BlockByID returns the block with the given id.
func (f *UserFlowConfig) BlockByID(id string) (ConcreteBlock, error) {
	for _, b := range f.Blocks {
		if c := b.Concrete(); c != nil && c.ID() == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", id, ErrBlockNotFound)
}

// EntrypointByID returns the entrypoint with the given id, or nil.
func (f *UserFlowConfig) EntrypointByID(id string) ConcreteEntryPoint {
	for _, e := range f.Entrypoints {
		if c := e.Concrete(); c != nil && c.ID() == id {
			return c
		}
	}
	return nil
}

// NextBlockIDs returns the possible successors of a block.
func (f *UserFlowConfig) NextBlockIDs(id string) ([]string, error) {
	b, err := f.BlockByID(id)
	if err != nil {
		return nil, err
	}
	return b.PossibleNextBlockIDs(), nil
}

// LanguageSelectBlock returns the flow's language selection block, or nil.
func (f *UserFlowConfig) LanguageSelectBlock() *LanguageSelectBlock {
	for _, b := range f.Blocks {
		if ls := b.LanguageSelect(); ls != nil {
			return ls
		}
	}
	return nil
}

// IsMultilingual reports whether texts in this flow are per-language maps.
func (f *UserFlowConfig) IsMultilingual() bool {
	return f.LanguageSelectBlock() != nil
}

// MenuBlocks returns all menu blocks in flow order.
func (f *UserFlowConfig) MenuBlocks() []*MenuBlock {
	var menus []*MenuBlock
	for _, b := range f.Blocks {
		if m := b.Menu(); m != nil {
			menus = append(menus, m)
		}
	}
	return menus
}
