package graph_test

import (
	"errors"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atharv3903/metronav/internal/graph"
)

const abc = ",A,B,C\nA,0,2,9\nB,2,0,3\nC,9,3,0\n"

func TestLoad_ABC(t *testing.T) {
	g, err := graph.Load(abc)
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"A", "B", "C"}, g.Stations())

	w, ok := g.Edge(0, 1)
	assert.True(t, ok)
	assert.Equal(t, 2, w)

	_, ok = g.Edge(0, 2)
	assert.False(t, ok, "9 marks a missing connection")
	assert.Equal(t, graph.NoEdge, g.Cost(2, 0))
	assert.False(t, g.Cost(2, 0).Finite())

	i, ok := g.Index("C")
	require.True(t, ok)
	assert.Equal(t, graph.Station{Name: "C", Index: 2}, g.Station(i))

	_, ok = g.Index("c")
	assert.False(t, ok, "lookup is case-sensitive")
	_, ok = g.Index(" C")
	assert.False(t, ok, "lookup does not trim")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		kind     graph.Kind
		sentinel error
		row      int
		expected int
		actual   int
	}{
		{name: "no lines", input: nil, kind: graph.EmptyInput, sentinel: graph.ErrEmptyInput},
		{name: "header without stations", input: []string{",", "A,0"}, kind: graph.MalformedHeader, sentinel: graph.ErrMalformedHeader, row: 1},
		{name: "blank header", input: []string{""}, kind: graph.MalformedHeader, sentinel: graph.ErrMalformedHeader, row: 1},
		{name: "single field header", input: []string{"label"}, kind: graph.MalformedHeader, sentinel: graph.ErrMalformedHeader, row: 1},
		{name: "missing row", input: []string{",A,B", "A,0,1"}, kind: graph.MissingRow, sentinel: graph.ErrMissingRow, row: 3},
		{name: "empty row", input: []string{",A,B", "A,0,1", "   "}, kind: graph.EmptyRow, sentinel: graph.ErrEmptyRow, row: 3},
		{name: "short row", input: []string{",A,B,C", "A,0,2,9", "B,2,0", "C,9,3,0"}, kind: graph.RowWidthMismatch, sentinel: graph.ErrRowWidthMismatch, row: 3, expected: 4, actual: 3},
		{name: "long row", input: []string{",A,B", "A,0,1,5", "B,1,0"}, kind: graph.RowWidthMismatch, sentinel: graph.ErrRowWidthMismatch, row: 2, expected: 3, actual: 4},
		{name: "trailing comma dropped", input: []string{",A,B", "A,0,", "B,1,0"}, kind: graph.RowWidthMismatch, sentinel: graph.ErrRowWidthMismatch, row: 2, expected: 3, actual: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := graph.LoadLines(tt.input)
			require.Error(t, err)
			assert.Nil(t, g, "no partial graph on error")

			var le *graph.LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.kind, le.Kind)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.row, le.Row)
			if tt.kind == graph.RowWidthMismatch {
				assert.Equal(t, tt.expected, le.Expected)
				assert.Equal(t, tt.actual, le.Actual)
				assert.Contains(t, err.Error(), "row ")
			}
		})
	}
}

func TestLoad_ErrorIsNotOtherSentinel(t *testing.T) {
	_, err := graph.Load(",A\n")
	require.ErrorIs(t, err, graph.ErrMissingRow)
	assert.NotErrorIs(t, err, graph.ErrEmptyRow)
}

func TestLoad_LenientWeights(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	g, err := graph.Load(",A,B,C\nA,0,x,1\nB,-4,0, 7 \nC,1,,0", graph.WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, graph.NoEdge, g.Cost(0, 1), "non-numeric falls back to no connection")
	assert.Equal(t, graph.NoEdge, g.Cost(1, 0), "negative falls back to no connection")
	assert.Equal(t, graph.Weight(7), g.Cost(1, 2), "fields are trimmed before parsing")
	assert.Equal(t, graph.NoEdge, g.Cost(2, 1), "empty middle field falls back")

	require.Equal(t, 3, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, int64(2), first.ContextMap()["row"])
	assert.Equal(t, int64(3), first.ContextMap()["column"])
	assert.Equal(t, "x", first.ContextMap()["value"])
}

func TestLoad_SentinelIsNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := graph.Load(abc, graph.WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestLoad_StrictWeights(t *testing.T) {
	_, err := graph.Load(",A,B\nA,0,x\nB,1,0", graph.WithStrictWeights())
	require.ErrorIs(t, err, graph.ErrInvalidWeight)

	var le *graph.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 2, le.Row)
	assert.Equal(t, 3, le.Column)
	assert.Equal(t, "x", le.Value)

	_, err = graph.Load(",A,B\nA,0,1\nB,-1,0", graph.WithStrictWeights())
	require.ErrorIs(t, err, graph.ErrInvalidWeight)

	g, err := graph.Load(abc, graph.WithStrictWeights())
	require.NoError(t, err, "the sentinel 9 is valid in strict mode")
	assert.Equal(t, graph.NoEdge, g.Cost(0, 2))
}

func TestLoad_DiagonalForcedToZero(t *testing.T) {
	g, err := graph.Load(",A,B\nA,5,1\nB,1,junk", graph.WithStrictWeights())
	require.NoError(t, err)
	assert.Equal(t, graph.Weight(0), g.Cost(0, 0))
	assert.Equal(t, graph.Weight(0), g.Cost(1, 1))

	g, err = graph.Load(",A\nA,9")
	require.NoError(t, err)
	assert.Equal(t, graph.Weight(0), g.Cost(0, 0))
}

func TestLoad_RowLabelIgnored(t *testing.T) {
	g, err := graph.Load(",A,B\nwhatever,0,4\n,4,0")
	require.NoError(t, err)
	assert.Equal(t, graph.Weight(4), g.Cost(0, 1))
}

func TestLoad_CRLFAndExtraLines(t *testing.T) {
	g, err := graph.Load(",A,B\r\nA,0,1\r\nB,1,0\r\n\r\nnotes that are never read\r\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, g.Stations())
	assert.Equal(t, graph.Weight(1), g.Cost(1, 0))
}

func TestLoad_AsymmetricMatrix(t *testing.T) {
	g, err := graph.Load(",A,B\nA,0,1\nB,9,0")
	require.NoError(t, err)
	assert.Equal(t, graph.Weight(1), g.Cost(0, 1))
	assert.Equal(t, graph.NoEdge, g.Cost(1, 0))
}

func TestLoad_DuplicateNamesFirstWins(t *testing.T) {
	g, err := graph.Load(",A,A\nA,0,1\nA,1,0")
	require.NoError(t, err)
	i, ok := g.Index("A")
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestStationsIsCopy(t *testing.T) {
	g, err := graph.Load(abc)
	require.NoError(t, err)
	s := g.Stations()
	s[0] = "Z"
	assert.Equal(t, []string{"A", "B", "C"}, g.Stations())

	row := g.Row(0)
	row[1] = 100
	assert.Equal(t, graph.Weight(2), g.Cost(0, 1))
}

func TestLoadReader_Unicode(t *testing.T) {
	f, err := os.Open("../../testdata/spb.csv")
	require.NoError(t, err)
	defer f.Close()

	g, err := graph.LoadReader(f)
	require.NoError(t, err)
	assert.Equal(t, 7, g.Len())
	assert.Equal(t, "Невский проспект", g.Stations()[0])

	i, ok := g.Index("Сенная площадь")
	require.True(t, ok)
	assert.Equal(t, 4, i)
}

func TestLoadReader_ReadError(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := graph.LoadReader(iotest.ErrReader(boom))
	require.ErrorIs(t, err, boom)
}

func TestLoad_NeverPanics(t *testing.T) {
	inputs := []string{
		"", "\n", ",", ",,,", ",A\n", ",A\n\n", ",A,B\nA\nB",
		strings.Repeat(",", 50), ",A\nA,1,2,3", ",A,B\nA,0,1\nB,1,0,,,,",
		"\xff\xfe,\x00\n\x00,0",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _, _ = graph.Load(in) }, "input %q", in)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "row width mismatch", graph.RowWidthMismatch.String())
	assert.Equal(t, "kind(42)", graph.Kind(42).String())
}
