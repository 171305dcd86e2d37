package main

import (
	"context"
	"errors"
	"testing"

	"streamhub/infrastructure/configuration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareStore(t *testing.T) {
	t.Run("setup succeeds and the connection stays open", func(t *testing.T) {
		closed := false
		err := prepareStore(context.Background(),
			func(context.Context) error { return nil },
			func(context.Context) error { closed = true; return nil })
		require.NoError(t, err)
		assert.False(t, closed)
	})

	t.Run("setup fails and the connection is closed", func(t *testing.T) {
		setupErr := errors.New("index build failed")
		closed := false
		err := prepareStore(context.Background(),
			func(context.Context) error { return setupErr },
			func(context.Context) error { closed = true; return errors.New("already closed") })
		require.Error(t, err)
		assert.ErrorIs(t, err, setupErr)
		assert.True(t, closed)
	})
}

func TestInitiateStore_MemoryVendor(t *testing.T) {
	store := InitiateStore(context.Background(), configuration.Database{Vendor: configuration.VendorMemory})

	assert.Equal(t, configuration.VendorMemory, store.Vendor)
	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, store.Close(context.Background()))
}
