package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-heat/runlog"
)

func TestReadCSV(t *testing.T) {
	input := `title,numPTS,order,CFL,L2
sine,4,2,0.1,1.6e-3
sine,8,2,0.1,2.0e-4
sine,4,3,0.1,1.e-4
`
	studies, err := readCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, studies, 2)
	cs := studies["sine2"]
	require.NotNil(t, cs)
	assert.Equal(t, []int{4, 8}, cs.NumPTS)
	rates := cs.Rates()
	require.Len(t, rates, 1)
	assert.InDelta(t, 3., rates[0], 1.e-12)

	_, err = readCSV(strings.NewReader("h\nsine,x,2,0.1,1\n"))
	assert.Error(t, err)
	_, err = readCSV(strings.NewReader("h\nsine,4\n"))
	assert.Error(t, err)
}

func TestPrintSums(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "run.sqlite")
	l, err := runlog.Open(path)
	require.NoError(t, err)
	require.NoError(t, l.AddQuantity(ctx, runlog.Quantity{Name: "step_time", Unit: "s"}))
	require.NoError(t, l.Record(ctx, map[string]float64{"step_time": 1.5}))
	require.NoError(t, l.Record(ctx, map[string]float64{"step_time": 2}))
	require.NoError(t, l.Close())

	var out bytes.Buffer
	require.NoError(t, printSums(ctx, path, &out))
	assert.Equal(t, "step_time: 3.5 s\n", out.String())
}
