package ports

import (
	"context"
	"testing"

	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLocaleStoreContract verifies that a fresh LocaleStore implementation adheres
// to the interface contract.
func RunLocaleStoreContract(t *testing.T, store LocaleStore) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		loc, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok, "fresh store should report nothing stored")
		assert.Empty(t, loc)
	})

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "ru"))

		loc, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "ru", loc)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "en"))

		loc, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "en", loc)
	})
}

// RunFlowLoaderContract verifies a FlowLoader that knows a flow named known.
func RunFlowLoaderContract(t *testing.T, loader FlowLoader, known string) {
	ctx := context.Background()

	t.Run("Load Known", func(t *testing.T) {
		flow, err := loader.LoadFlow(ctx, known)
		require.NoError(t, err)
		require.NotNil(t, flow)
		assert.NotNil(t, flow.Blocks, "blocks should decode to a non-nil slice")
	})

	t.Run("Load Unknown", func(t *testing.T) {
		_, err := loader.LoadFlow(ctx, "no-such-flow-"+known)
		assert.ErrorIs(t, err, domain.ErrFlowNotFound)
	})
}
