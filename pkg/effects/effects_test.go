package effects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinPreservesFutureOrderAndOrsChanged(t *testing.T) {
	f1 := FromFuture(func(context.Context) Msg { return NewInternal("one", nil) })
	f2 := Changed()
	f3 := FromFuture(func(context.Context) Msg { return NewInternal("two", nil) })

	joined := Join(f1, f2, f3)
	require.Len(t, joined.Futures, 2)
	assert.True(t, joined.Changed)
	assert.Equal(t, "one", joined.Futures[0](context.Background()).Name)
	assert.Equal(t, "two", joined.Futures[1](context.Background()).Name)
}

func TestNoneIsEmptyAndUnchanged(t *testing.T) {
	n := None()
	assert.Empty(t, n.Futures)
	assert.False(t, n.Changed)
}
