// Package packgen turns a story prompt into a structured campaign pack by
// driving the text generator and recovering JSON from its output.
package packgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"dndtools/internal/domain"
	"dndtools/internal/extract"
	"dndtools/internal/providers/text"
)

const systemPrompt = "You are an expert D&D campaign designer. " +
	"Return STRICT JSON only. No markdown, no commentary."

// The numeric bounds are advisory prompt content; out-of-bound model output
// is accepted as-is.
const userPromptFormat = `Create a compact campaign pack from this story prompt:

%s

Return JSON with this schema (use these exact keys):
{
  "title": string,
  "premise": string,
  "tone": string,
  "starting_location": string,
  "locations": [
    {"name": string, "summary": string, "encounters": [string], "map": {"width": int, "height": int} }
  ],
  "npcs": [
    {"name": string, "race": string, "role": string, "motivation": string, "secret": string}
  ],
  "scenes": [
    {
      "title": string,
      "location": string,
      "setup": string,
      "dialog": [{"speaker": string, "line": string}],
      "player_options": [{"label": string, "outcome": string}]
    }
  ],
  "decision_flow": {
    "nodes": [
      {"id": string, "text": string, "options": [{"label": string, "next": string}]}
    ]
  },
  "handouts": [
    {"title": string, "content": string}
  ]
}

Constraints:
- 4-6 locations.
- 6-10 NPCs.
- 5-8 scenes.
- Decision flow must have 8-14 nodes with ids like N1, N2, ...
- Keep content PG-13.`

// Builder orchestrates one generation request against the text generator.
type Builder struct {
	gen    text.Generator
	logger zerolog.Logger
}

// NewBuilder wires the builder to a text generator.
func NewBuilder(gen text.Generator, logger zerolog.Logger) *Builder {
	return &Builder{gen: gen, logger: logger}
}

// Build submits the story prompt and decodes the model's response into a
// typed CampaignPack. It fails with *domain.GenerationError when the model
// call fails and *domain.ExtractionError when no JSON object can be
// recovered. modelOverride may be empty.
func (b *Builder) Build(ctx context.Context, storyPrompt, modelOverride string) (*domain.CampaignPack, error) {
	raw, err := b.gen.Complete(ctx, systemPrompt, fmt.Sprintf(userPromptFormat, storyPrompt), modelOverride)
	if err != nil {
		return nil, err
	}

	obj, err := extract.Object(raw)
	if err != nil {
		b.logger.Warn().Int("response_len", len(raw)).Msg("packgen: model response not recoverable as JSON")
		return nil, err
	}

	// Single explicit decode step: absent keys default, unexpected shapes
	// fail here instead of at each point of use.
	var pack domain.CampaignPack
	if err := json.Unmarshal(obj, &pack); err != nil {
		return nil, &domain.ExtractionError{Raw: raw, Err: err}
	}

	b.logger.Info().
		Str("title", pack.Title).
		Int("locations", len(pack.Locations)).
		Int("npcs", len(pack.NPCs)).
		Int("scenes", len(pack.Scenes)).
		Int("flow_nodes", len(pack.DecisionFlow.Nodes)).
		Msg("packgen: campaign pack built")
	return &pack, nil
}
