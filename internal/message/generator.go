package message

import (
	"context"

	"github.com/Buttje/aicheckin/internal/logging"
	"github.com/Buttje/aicheckin/internal/models"
)

// LLM is the language-model collaborator consumed by the generator.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator produces one commit message per group. Model failures and
// empty responses are absorbed with the deterministic fallback, so a
// misbehaving model can never abort a run.
type Generator struct {
	llm LLM
}

func NewGenerator(llm LLM) *Generator {
	return &Generator{llm: llm}
}

// Message returns the candidate commit message for a group. The raw
// model response is sanitized and its type prefix normalized to the
// group's commit type.
func (g *Generator) Message(ctx context.Context, grp *models.CommitGroup) string {
	log := logging.Get(ctx)

	raw, err := g.llm.Generate(ctx, BuildPrompt(grp))
	if err != nil {
		log.Warn().Err(err).Str("type", string(grp.Type)).
			Msg("commit message generation failed, using fallback")
		return Fallback(grp.Type, grp.Files)
	}

	clean := Sanitize(raw)
	if clean == "" {
		log.Warn().Str("type", string(grp.Type)).
			Msg("model response empty after sanitization, using fallback")
		return Fallback(grp.Type, grp.Files)
	}
	return EnsureType(clean, grp.Type)
}
