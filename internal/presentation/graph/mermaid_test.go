package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/stylist/internal/presentation/graph"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `welcome(("welcome"))`)
	assert.Contains(t, out, `photo[["photo"]]`)
	assert.Contains(t, out, `outfit_preferences["outfit_preferences"]`)
	assert.Contains(t, out, `final_request[/"final_request"/]`)
	assert.Contains(t, out, `welcome -- "start" --> photo`)
	assert.Contains(t, out, `outfit_preferences -- "continue (1+ liked)" --> final_request`)
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := graph.GenerateMermaid(&graph.Overlay{Current: domain.StepLifestyle})

	assert.Contains(t, out, "class welcome visited;")
	assert.Contains(t, out, "class photo visited;")
	assert.Contains(t, out, "class lifestyle current;")
	assert.NotContains(t, out, "class outfit_preferences")
}
