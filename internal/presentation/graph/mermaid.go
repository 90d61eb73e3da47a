package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/stylist/pkg/domain"
)

// Overlay contains dynamic session data to visualize on the graph.
type Overlay struct {
	Current domain.Step
}

// edge labels name the operation that leaves each step.
var edges = map[domain.Step]string{
	domain.StepWelcome:           "start",
	domain.StepPhoto:             "capture",
	domain.StepLifestyle:         "recording",
	domain.StepOutfitPreferences: "continue (1+ liked)",
}

// GenerateMermaid produces a Mermaid flowchart of the guided flow.
// It applies semantic styling:
// - Welcome: ((Circle))
// - Capture steps (photo, voice): [[Subroutine]]
// - Final request: [/Parallelogram/] (free-text input)
// - Default: [Rectangle]
// Steps before the overlay's current step are styled as visited.
func GenerateMermaid(overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, step := range domain.Steps() {
		opener, closer := "[", "]"
		switch step {
		case domain.StepWelcome:
			opener, closer = "((", "))"
		case domain.StepPhoto, domain.StepLifestyle:
			opener, closer = "[[", "]]"
		case domain.StepFinalRequest:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", step, opener, step, closer))

		if label, ok := edges[step]; ok {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", step, label, step.Next()))
		}
	}
	// Requests may be repeated once the flow is complete.
	sb.WriteString(fmt.Sprintf("    %s -. \"submit\" .-> %s\n", domain.StepFinalRequest, domain.StepFinalRequest))

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, step := range domain.Steps() {
			if step < overlay.Current {
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", step))
			}
		}
		if overlay.Current.Valid() {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", overlay.Current))
		}
	}

	return sb.String()
}
