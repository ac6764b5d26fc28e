package run

import (
	"context"
	"os"

	"github.com/Buttje/aicheckin/internal/models"
	"github.com/Buttje/aicheckin/internal/prompt"
	"github.com/Buttje/aicheckin/internal/ui"
)

// AutoAccept resolves every group as accepted without interaction.
// Used under the --yes flag.
type AutoAccept struct{}

func (AutoAccept) Review(_ context.Context, g *models.CommitGroup) error {
	return g.Resolve(models.DispositionAccepted)
}

// Interactive shows each group and asks the operator to accept, edit,
// or decline. Edits go through $EDITOR when one is configured,
// otherwise through terminal multi-line input.
type Interactive struct {
	Prompter prompt.Prompter
	Out      *ui.Printer
}

func (r *Interactive) Review(ctx context.Context, g *models.CommitGroup) error {
	r.Out.Plain("")
	r.Out.SummaryBox("Commit group: "+string(g.Type), g.Files)
	r.Out.Plain("\nProposed message:\n  %s", g.Message)

	if err := ctx.Err(); err != nil {
		return err
	}

	choice, err := prompt.Choice(r.Prompter, "Accept, edit, or decline?", []string{"a", "e", "d"})
	if err != nil {
		return err
	}

	switch choice {
	case "a":
		return g.Resolve(models.DispositionAccepted)
	case "d":
		return g.Resolve(models.DispositionDeclined)
	}

	edited, err := r.edit(g.Message)
	if err != nil {
		return err
	}
	if edited == "" {
		r.Out.Warning("Empty message, keeping the proposed one")
		return g.Resolve(models.DispositionAccepted)
	}
	g.Message = edited
	r.Out.Success("Message edited")
	return g.Resolve(models.DispositionEdited)
}

func (r *Interactive) edit(initial string) (string, error) {
	if os.Getenv("EDITOR") != "" {
		r.Out.Info("Opening editor...")
		return prompt.EditInEditor(initial)
	}
	return prompt.MultiLine(r.Prompter, "Enter new message")
}
