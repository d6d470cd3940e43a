package runlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndSum(t *testing.T) {
	ctx := context.Background()
	l, err := Open(":memory:")
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.AddQuantity(ctx, Quantity{Name: "step_time", Unit: "s", Description: "wall time per step"}))
	require.NoError(t, l.AddQuantity(ctx, Quantity{Name: "max_t", Unit: "K"}))
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Record(ctx, map[string]float64{"step_time": 0.5, "max_t": float64(i)}))
	}
	assert.Equal(t, 4, l.Step())

	vals, err := l.Values(ctx, "max_t")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, vals)

	sums, err := l.ValueSums(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"step_time": 2, "max_t": 6}, sums)

	qs := l.Quantities()
	require.Len(t, qs, 2)
	assert.Equal(t, "max_t", qs[0].Name)
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	_, err := Open(" ")
	assert.Error(t, err)

	l, err := Open(":memory:")
	require.NoError(t, err)
	defer l.Close()
	for _, name := range []string{"", "1abc", "drop table; x", "quantities"} {
		assert.ErrorIs(t, l.AddQuantity(ctx, Quantity{Name: name}), ErrQuantityName)
	}
	assert.ErrorIs(t, l.Record(ctx, map[string]float64{"nope": 1}), ErrUnknownQuantity)
	_, err = l.Values(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownQuantity)
	assert.Equal(t, 0, l.Step())
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "run.sqlite")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.AddQuantity(ctx, Quantity{Name: "dt", Unit: "s"}))
	require.NoError(t, l.Record(ctx, map[string]float64{"dt": 0.25}))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	require.Len(t, l.Quantities(), 1)
	assert.Equal(t, 1, l.Step())
	sums, err := l.ValueSums(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.25, sums["dt"])
}
