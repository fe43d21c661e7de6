package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bots-against-war/moduli/pkg/domain"
)

// Loader implements ports.FlowLoader using an in-memory map of raw JSON flows.
// Every LoadFlow decodes afresh, so callers never share a flow value.
type Loader struct {
	flows map[string][]byte
}

// NewLoader creates a Loader from raw JSON documents keyed by flow name.
func NewLoader(data map[string]string) *Loader {
	flows := make(map[string][]byte, len(data))
	for k, v := range data {
		flows[k] = []byte(v)
	}
	return &Loader{flows: flows}
}

// NewFromFlows creates a Loader from domain values, serializing them up front.
func NewFromFlows(flows map[string]*domain.UserFlowConfig) (*Loader, error) {
	data := make(map[string][]byte, len(flows))
	for name, f := range flows {
		raw, err := json.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal flow %s: %w", name, err)
		}
		data[name] = raw
	}
	return &Loader{flows: data}, nil
}

// LoadFlow decodes the named flow.
func (l *Loader) LoadFlow(ctx context.Context, name string) (*domain.UserFlowConfig, error) {
	raw, ok := l.flows[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrFlowNotFound)
	}
	flow := domain.NewUserFlowConfig()
	if err := json.Unmarshal(raw, flow); err != nil {
		return nil, fmt.Errorf("decode flow %s: %w", name, err)
	}
	return flow, nil
}

// ListFlows returns all flow names in sorted order.
func (l *Loader) ListFlows() []string {
	names := make([]string, 0, len(l.flows))
	for k := range l.flows {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
