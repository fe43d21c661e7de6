package domain

import (
	"encoding/json"
	"fmt"
)

// BlockKind is the wire key of a block variant.
type BlockKind string

const (
	BlockContent        BlockKind = "content"
	BlockHumanOperator  BlockKind = "human_operator"
	BlockMenu           BlockKind = "menu"
	BlockForm           BlockKind = "form"
	BlockLanguageSelect BlockKind = "language_select"
	BlockError          BlockKind = "error"
)

// blockVariants lists variant keys in accessor priority order.
var blockVariants = []string{
	string(BlockContent),
	string(BlockHumanOperator),
	string(BlockMenu),
	string(BlockForm),
	string(BlockLanguageSelect),
	string(BlockError),
}

// ConcreteBlock is implemented by every block variant.
type ConcreteBlock interface {
	ID() string
	Kind() BlockKind
	// PossibleNextBlockIDs lists every block the flow may continue to from here.
	PossibleNextBlockIDs() []string
}

// ErrorBlock raises an error when the user enters it. Used to test bot error reporting.
type ErrorBlock struct {
	BlockID string `json:"block_id"`
}

func (b *ErrorBlock) ID() string                     { return b.BlockID }
func (b *ErrorBlock) Kind() BlockKind                { return BlockError }
func (b *ErrorBlock) PossibleNextBlockIDs() []string { return []string{} }

// BlockConfig is the tagged union over block variants.
// The zero value has no populated variant.
type BlockConfig struct {
	concrete ConcreteBlock
}

// NewBlock wraps a concrete block. A nil variant yields an empty union.
func NewBlock(b ConcreteBlock) BlockConfig {
	if isNilVariant(b) {
		return BlockConfig{}
	}
	return BlockConfig{concrete: b}
}

// Concrete returns the populated variant, or nil for an empty union.
func (c BlockConfig) Concrete() ConcreteBlock {
	return c.concrete
}

// Content returns the content variant, or nil.
func (c BlockConfig) Content() *ContentBlock {
	b, _ := c.concrete.(*ContentBlock)
	return b
}

// HumanOperator returns the human operator variant, or nil.
func (c BlockConfig) HumanOperator() *HumanOperatorBlock {
	b, _ := c.concrete.(*HumanOperatorBlock)
	return b
}

// Menu returns the menu variant, or nil.
func (c BlockConfig) Menu() *MenuBlock {
	b, _ := c.concrete.(*MenuBlock)
	return b
}

// Form returns the form variant, or nil.
func (c BlockConfig) Form() *FormBlock {
	b, _ := c.concrete.(*FormBlock)
	return b
}

// LanguageSelect returns the language selection variant, or nil.
func (c BlockConfig) LanguageSelect() *LanguageSelectBlock {
	b, _ := c.concrete.(*LanguageSelectBlock)
	return b
}

// Error returns the error variant, or nil.
func (c BlockConfig) Error() *ErrorBlock {
	b, _ := c.concrete.(*ErrorBlock)
	return b
}

// GetBlockConcreteConfig returns the populated variant of c, or nil.
func GetBlockConcreteConfig(c BlockConfig) ConcreteBlock {
	return c.Concrete()
}

// GetBlockID returns the id of the populated variant.
func GetBlockID(c BlockConfig) (string, error) {
	concrete := c.Concrete()
	if concrete == nil {
		return "", &EmptyUnionError{Union: "UserFlowBlockConfig", Value: c}
	}
	return concrete.ID(), nil
}

// MustBlockID is GetBlockID for callers that constructed c themselves.
func MustBlockID(c BlockConfig) string {
	id, err := GetBlockID(c)
	if err != nil {
		panic(err)
	}
	return id
}

func (c BlockConfig) MarshalJSON() ([]byte, error) {
	if c.concrete == nil {
		return nil, &EmptyUnionError{Union: "UserFlowBlockConfig", Value: c}
	}
	return marshalVariant(string(c.concrete.Kind()), c.concrete)
}

func (c *BlockConfig) UnmarshalJSON(data []byte) error {
	key, raw, err := pickVariant("UserFlowBlockConfig", data, blockVariants)
	if err != nil {
		return err
	}

	var concrete ConcreteBlock
	switch BlockKind(key) {
	case BlockContent:
		concrete = &ContentBlock{}
	case BlockHumanOperator:
		concrete = &HumanOperatorBlock{}
	case BlockMenu:
		concrete = &MenuBlock{}
	case BlockForm:
		concrete = &FormBlock{}
	case BlockLanguageSelect:
		concrete = &LanguageSelectBlock{}
	case BlockError:
		concrete = &ErrorBlock{}
	}
	if err := json.Unmarshal(raw, concrete); err != nil {
		return fmt.Errorf("%s block: %w", key, err)
	}
	if tree, ok := concrete.(interface{ checkDepth() error }); ok {
		if err := tree.checkDepth(); err != nil {
			return err
		}
	}
	c.concrete = concrete
	return nil
}

// nextIDs collects the non-nil pointers.
func nextIDs(ids ...*string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}
