package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	a := Key("SYD", "SIN", "2026-09-10")
	b := Key("SYD", "SIN", "2026-09-10")
	c := Key("SYD", "SIN", "2026-09-11")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, len(a) > len("flights:"))
}

func TestNoOpAlwaysMisses(t *testing.T) {
	store := NewNoOp()
	ctx := context.Background()

	assert.NoError(t, store.Set(ctx, "k", nil))
	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}
