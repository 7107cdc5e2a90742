package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

func TestNotifier_DropsOldestWhenFull(t *testing.T) {
	n := NewNotifier(2)
	for id := int64(1); id <= 3; id++ {
		n.ReportError(context.Background(), ports.Notification{ProductID: id})
	}

	drained := n.Drain()
	require.Len(t, drained, 2)
	require.Equal(t, int64(2), drained[0].ProductID)
	require.Equal(t, int64(3), drained[1].ProductID)
	require.Empty(t, n.Drain())
	require.NotNil(t, n.Drain())
}

func TestStore_ReadWriteClear(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, ok, err := s.Read(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Write(ctx, "k", "[]"))
	require.NoError(t, s.Write(ctx, "k", `[{"id":1}]`))
	value, ok, err := s.Read(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"id":1}]`, value)

	s.Clear("k")
	_, ok, err = s.Read(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}
