package ports

import (
	"context"

	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/result"
)

// LocaleStore persists the UI locale preference.
// Load reports ok=false when nothing is stored; a storage failure is an error, never
// a silent fallback. Callers apply the fallback chain themselves (see i18n.ResolveLocale).
type LocaleStore interface {
	Load(ctx context.Context) (locale string, ok bool, err error)
	Save(ctx context.Context, locale string) error
}

// FlowLoader loads a user flow by name.
// Returns domain.ErrFlowNotFound if no flow has that name.
type FlowLoader interface {
	LoadFlow(ctx context.Context, name string) (*domain.UserFlowConfig, error)
}

// PrefilledSource provides the prefilled message catalog.
// It is satisfied by *client.Client.
type PrefilledSource interface {
	PrefilledMessages(ctx context.Context) (result.Result[domain.PrefilledMessages], error)
}
