package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNestingTooDeep is returned when a menu or form tree exceeds MaxNestingDepth.
var ErrNestingTooDeep = errors.New("nesting too deep")

// ErrBlockNotFound is returned when a block id does not resolve in the flow.
var ErrBlockNotFound = errors.New("block not found")

// ErrFlowNotFound is returned by flow loaders for an unknown flow name.
var ErrFlowNotFound = errors.New("flow not found")

// MaxNestingDepth bounds submenu and form branch recursion at the decoding boundary.
const MaxNestingDepth = 32

// VariantError reports a tagged union whose payload does not populate exactly one variant.
type VariantError struct {
	Union     string   // e.g. "UserFlowBlockConfig"
	Allowed   []string // variant keys in priority order
	Populated []string // non-null keys found in the payload
}

func (e *VariantError) Error() string {
	return fmt.Sprintf(
		"%s: exactly one of [%s] must be non-null, got %d: [%s]",
		e.Union,
		strings.Join(e.Allowed, ", "),
		len(e.Populated),
		strings.Join(e.Populated, ", "),
	)
}

// EmptyUnionError is returned by id accessors when a union value has no populated variant.
// This only happens for values built outside the constructors, e.g. a zero BlockConfig.
type EmptyUnionError struct {
	Union string
	Value any
}

func (e *EmptyUnionError) Error() string {
	return fmt.Sprintf("%s has no populated variant: %#v", e.Union, e.Value)
}
