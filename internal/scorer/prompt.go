package scorer

import (
	"fmt"
	"strings"
)

const objective = `You are an expert financial services operations classifier.
Given a text segment from a commercial lending service request, rank every
candidate label by how well it describes the request expressed in the text.`

const instructions = `Respond with JSON only, no prose, in exactly this shape:
{"rankings": [{"label": "<candidate label>", "confidence": <0.0-1.0>}]}
Include every candidate exactly once, ordered from strongest to weakest match.
Use only the candidate labels provided, verbatim.`

// composePrompt assembles the objective, candidate descriptions, text, and
// response instructions into a single chat prompt.
func composePrompt(text string, candidates []Candidate) string {
	var sb strings.Builder

	sb.WriteString(objective)
	sb.WriteString("\n\nCandidate labels:\n")
	for _, c := range candidates {
		fmt.Fprintf(&sb, "- %s: %s\n", c.Label, c.Description)
	}

	sb.WriteString("\nText segment:\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")
	sb.WriteString(instructions)

	return sb.String()
}
