package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ydmxcz/nodebalance"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const weightedRoster = `
selector:
  strategy: weighted-round-robin
nodes:
  - id: a
    weight: 3
  - id: b
    weight: 5
    load: 0.5
  - id: c
    weight: 7
`

func TestDecodeRoster(t *testing.T) {
	r, err := decodeRoster(strings.NewReader(weightedRoster), nodebalance.Config{Strategy: "round-robin", RandomChoices: 2})
	require.NoError(t, err)
	assert.Equal(t, nodebalance.Config{Strategy: "weighted-round-robin", RandomChoices: 2}, r.Selector)

	nodes, err := r.buildNodes(nodebalance.UUIDProvider{})
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "b", nodes[1].ID())
	assert.EqualValues(t, 5, nodes[1].Weight().Value())
	assert.Equal(t, nodebalance.Load(0.5), nodes[1].Load())
}

func TestDecodeRoster_Empty(t *testing.T) {
	defaults := nodebalance.Config{Strategy: "round-robin", RandomChoices: 2}
	r, err := decodeRoster(strings.NewReader(""), defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, r.Selector)
	assert.Empty(t, r.Nodes)
}

func TestDecodeRoster_UnknownField(t *testing.T) {
	_, err := decodeRoster(strings.NewReader("nodes:\n  - id: a\n    weigth: 1\n"), nodebalance.Config{})
	require.Error(t, err)
}

func TestBuildNodes_Weights(t *testing.T) {
	tests := map[string]struct {
		doc     string
		wantErr bool
	}{
		"null weight":     {doc: "nodes:\n  - id: a\n    weight: null\n", wantErr: true},
		"missing weight":  {doc: "nodes:\n  - id: a\n", wantErr: true},
		"negative weight": {doc: "nodes:\n  - id: a\n    weight: -1\n", wantErr: true},
		"zero weight":     {doc: "nodes:\n  - id: a\n    weight: 0\n"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := decodeRoster(strings.NewReader(tc.doc), nodebalance.Config{})
			require.NoError(t, err)
			_, err = r.buildNodes(nodebalance.UUIDProvider{})
			if tc.wantErr {
				require.ErrorIs(t, err, nodebalance.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBuildNodes_GeneratesMissingIDs(t *testing.T) {
	r, err := decodeRoster(strings.NewReader("nodes:\n  - weight: 1\n  - weight: 1\n"), nodebalance.Config{})
	require.NoError(t, err)

	calls := 0
	nodes, err := r.buildNodes(nodebalance.IDProviderFunc(func() string {
		calls++
		return []string{"gen-1", "gen-2"}[calls-1]
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "gen-1", nodes[0].ID())
	assert.Equal(t, "gen-2", nodes[1].ID())
}

func TestSimulate(t *testing.T) {
	wrr := nodebalance.NewWeightedRoundRobin()
	for _, tc := range []struct {
		id     string
		weight int64
	}{{"a", 3}, {"b", 5}, {"c", 7}} {
		n := nodebalance.NewNode(nodebalance.IDProviderFunc(func() string { return tc.id }))
		n.SetWeight(nodebalance.MustWeight(tc.weight))
		_, err := wrr.AddNode(n)
		require.NoError(t, err)
	}

	// whole rounds split exactly by weight no matter how the workers interleave
	counts, err := simulate(context.Background(), wrr, 150, 4)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 30, "b": 50, "c": 70}, counts)
}

func TestSimulate_PropagatesSelectionErrors(t *testing.T) {
	_, err := simulate(context.Background(), nodebalance.NewRoundRobin(), 10, 2)
	require.ErrorIs(t, err, nodebalance.ErrPreconditionFailed)
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(weightedRoster), 0o600))

	var out bytes.Buffer
	err := run(context.Background(), log.NewNopLogger(), &out, nodebalance.Config{Strategy: "round-robin", RandomChoices: 2}, path, 30, 3)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"NODE", "WEIGHT", "LOAD", "SELECTED"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"a", "3", "0", "6"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"b", "5", "0.5", "10"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"c", "7", "0", "14"}, strings.Fields(lines[3]))
}

func TestRun_RequiresRoster(t *testing.T) {
	err := run(context.Background(), log.NewNopLogger(), &bytes.Buffer{}, nodebalance.Config{}, "", 1, 1)
	require.EqualError(t, err, "--roster.file is required")
}
