package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// EntryPointKind is the wire key of an entrypoint variant.
type EntryPointKind string

const (
	EntryPointCommand  EntryPointKind = "command"
	EntryPointCatchAll EntryPointKind = "catch_all"
	EntryPointRegex    EntryPointKind = "regex"
)

// entrypointVariants lists variant keys in accessor priority order.
var entrypointVariants = []string{
	string(EntryPointCommand),
	string(EntryPointCatchAll),
	string(EntryPointRegex),
}

// CommandScope restricts where a command entrypoint reacts.
type CommandScope string

const (
	ScopePrivate CommandScope = "private"
	ScopeGroup   CommandScope = "group"
	ScopeAny     CommandScope = "any"
)

// ConcreteEntryPoint is implemented by every entrypoint variant.
type ConcreteEntryPoint interface {
	ID() string
	NextBlock() *string
	Kind() EntryPointKind
}

// CommandEntryPoint catches Telegram /commands.
type CommandEntryPoint struct {
	EntrypointID     string       `json:"entrypoint_id"`
	Command          string       `json:"command"`
	NextBlockID      *string      `json:"next_block_id"`
	Scope            CommandScope `json:"scope,omitempty"`
	ShortDescription *string      `json:"short_description"`
}

func (e *CommandEntryPoint) ID() string           { return e.EntrypointID }
func (e *CommandEntryPoint) NextBlock() *string   { return e.NextBlockID }
func (e *CommandEntryPoint) Kind() EntryPointKind { return EntryPointCommand }

// CatchAllEntryPoint catches every user message.
type CatchAllEntryPoint struct {
	EntrypointID string  `json:"entrypoint_id"`
	NextBlockID  *string `json:"next_block_id"`
}

func (e *CatchAllEntryPoint) ID() string           { return e.EntrypointID }
func (e *CatchAllEntryPoint) NextBlock() *string   { return e.NextBlockID }
func (e *CatchAllEntryPoint) Kind() EntryPointKind { return EntryPointCatchAll }

// RegexMatchEntryPoint matches user messages by searching a regex pattern in text.
type RegexMatchEntryPoint struct {
	EntrypointID string  `json:"entrypoint_id"`
	Regex        string  `json:"regex"`
	NextBlockID  *string `json:"next_block_id"`
}

func (e *RegexMatchEntryPoint) ID() string           { return e.EntrypointID }
func (e *RegexMatchEntryPoint) NextBlock() *string   { return e.NextBlockID }
func (e *RegexMatchEntryPoint) Kind() EntryPointKind { return EntryPointRegex }

// EntryPointConfig is the tagged union over entrypoint variants.
// The zero value has no populated variant.
type EntryPointConfig struct {
	concrete ConcreteEntryPoint
}

// NewEntryPoint wraps a concrete entrypoint. A nil variant yields an empty union.
func NewEntryPoint(e ConcreteEntryPoint) EntryPointConfig {
	if isNilVariant(e) {
		return EntryPointConfig{}
	}
	return EntryPointConfig{concrete: e}
}

// Concrete returns the populated variant, or nil for an empty union.
func (c EntryPointConfig) Concrete() ConcreteEntryPoint {
	return c.concrete
}

// Command returns the command variant, or nil.
func (c EntryPointConfig) Command() *CommandEntryPoint {
	e, _ := c.concrete.(*CommandEntryPoint)
	return e
}

// CatchAll returns the catch-all variant, or nil.
func (c EntryPointConfig) CatchAll() *CatchAllEntryPoint {
	e, _ := c.concrete.(*CatchAllEntryPoint)
	return e
}

// Regex returns the regex variant, or nil.
func (c EntryPointConfig) Regex() *RegexMatchEntryPoint {
	e, _ := c.concrete.(*RegexMatchEntryPoint)
	return e
}

// GetEntrypointConcreteConfig returns the populated variant of c, or nil.
func GetEntrypointConcreteConfig(c EntryPointConfig) ConcreteEntryPoint {
	return c.Concrete()
}

// GetEntrypointID returns the id of the populated variant.
func GetEntrypointID(c EntryPointConfig) (string, error) {
	concrete := c.Concrete()
	if concrete == nil {
		return "", &EmptyUnionError{Union: "UserFlowEntryPointConfig", Value: c}
	}
	return concrete.ID(), nil
}

func (c EntryPointConfig) MarshalJSON() ([]byte, error) {
	if c.concrete == nil {
		return nil, &EmptyUnionError{Union: "UserFlowEntryPointConfig", Value: c}
	}
	return marshalVariant(string(c.concrete.Kind()), c.concrete)
}

func (c *EntryPointConfig) UnmarshalJSON(data []byte) error {
	key, raw, err := pickVariant("UserFlowEntryPointConfig", data, entrypointVariants)
	if err != nil {
		return err
	}

	var concrete ConcreteEntryPoint
	switch EntryPointKind(key) {
	case EntryPointCommand:
		concrete = &CommandEntryPoint{}
	case EntryPointCatchAll:
		concrete = &CatchAllEntryPoint{}
	case EntryPointRegex:
		concrete = &RegexMatchEntryPoint{}
	}
	if err := json.Unmarshal(raw, concrete); err != nil {
		return fmt.Errorf("%s entrypoint: %w", key, err)
	}
	c.concrete = concrete
	return nil
}

// isNilVariant reports whether v is nil or a typed nil pointer.
func isNilVariant(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
