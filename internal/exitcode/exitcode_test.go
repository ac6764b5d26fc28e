package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Buttje/aicheckin/internal/models"
	"github.com/Buttje/aicheckin/internal/ollama"
	"github.com/Buttje/aicheckin/internal/run"
	"github.com/Buttje/aicheckin/internal/vcs"
)

func TestFromError(t *testing.T) {
	commitFailure := &run.CommitError{
		Group: models.NewCommitGroup(models.TypeFix),
		Err:   &vcs.OperationError{Cmd: "git commit", Err: errors.New("hook failed")},
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, OK},
		{"usage", &UsageError{Err: errors.New("unknown flag: --frobnicate")}, UsageFailure},
		{"no repository", vcs.ErrNoRepository, NoRepository},
		{"wrapped no repository", fmt.Errorf("detect: %w", vcs.ErrNoRepository), NoRepository},
		{"no changes", run.ErrNoChanges, NoChanges},
		{"all declined", run.ErrAllDeclined, AllDeclined},
		{"commit failure", commitFailure, VCSFailure},
		{"bare vcs failure", &vcs.OperationError{Cmd: "git push", Err: errors.New("refused")}, VCSFailure},
		{"model failure", &ollama.Error{Op: "generate", Err: errors.New("connection refused")}, LLMFailure},
		{"wrapped model failure", fmt.Errorf("message: %w", &ollama.Error{Op: "generate", Err: errors.New("timeout")}), LLMFailure},
		{"unclassified", errors.New("something else"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromError(tt.err))
		})
	}
}
