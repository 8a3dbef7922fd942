package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edelwud/expoci/internal/graph"
)

func TestFormatList(t *testing.T) {
	g := graph.NewJobGraph()
	g.AddJob("gate", 2)
	g.AddJob("verify", 5)
	g.AddJob("build", 12)
	g.AddNeed("verify", "gate")
	g.AddNeed("build", "verify")

	out, err := formatList(g)
	require.NoError(t, err)
	assert.Equal(t, "gate (2 steps) -> verify\n"+
		"verify (5 steps) <- gate -> build\n"+
		"build (12 steps) <- verify [upstream: verify, gate]\n", out)
}

func TestFormatList_Cycle(t *testing.T) {
	g := graph.NewJobGraph()
	g.AddJob("a", 1)
	g.AddJob("b", 1)
	g.AddNeed("a", "b")
	g.AddNeed("b", "a")

	_, err := formatList(g)
	assert.Error(t, err)
}
