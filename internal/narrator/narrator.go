package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"
	"time"

	"menu-planner/internal/llm"
	"menu-planner/internal/planner"
	"menu-planner/internal/shared"
)

//go:embed narrator_prompt.md
var narratorPrompt string

// Narrator turns a structured, already-decided plan into human-readable
// prose via the LLM. It hands the model the selector's output and nothing
// else; the model describes the plan, it never re-ranks or re-selects.
type Narrator struct {
	textGen llm.TextGenerator
}

// NewNarrator creates a Narrator.
func NewNarrator(textGen llm.TextGenerator) *Narrator {
	return &Narrator{textGen: textGen}
}

// Narrate returns the narration prose for the given request. The text is
// opaque to the caller and stored verbatim downstream. Failures come back as
// *planner.NarrationError so callers can tell a recoverable narration
// failure from a fatal selection failure.
func (n *Narrator) Narrate(ctx context.Context, req planner.NarrationRequest) (string, shared.CallMeta, error) {
	start := time.Now()
	meta := shared.CallMeta{Caller: "Narrator"}

	prompt, err := buildPrompt(req)
	if err != nil {
		return "", meta, &planner.NarrationError{Err: err}
	}

	resp, err := n.textGen.GenerateContent(ctx, prompt)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return "", meta, &planner.NarrationError{Err: err}
	}
	if resp.Content == "" {
		return "", meta, &planner.NarrationError{Err: fmt.Errorf("empty narration response")}
	}

	return resp.Content, meta, nil
}

func buildPrompt(req planner.NarrationRequest) (string, error) {
	tmpl, err := template.New("Narrator").Parse(narratorPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
