// Package exitcode maps run outcomes onto the process exit codes the
// tool's callers script against.
package exitcode

import (
	"errors"

	"github.com/Buttje/aicheckin/internal/config"
	"github.com/Buttje/aicheckin/internal/ollama"
	"github.com/Buttje/aicheckin/internal/run"
	"github.com/Buttje/aicheckin/internal/vcs"
)

const (
	OK            = 0 // at least one group committed
	GeneralError  = 1 // unclassified failure
	UsageFailure  = 2 // bad flags or arguments
	NoRepository  = 3 // no git or svn repository found
	NoChanges     = 4 // working copy is clean
	ConfigInvalid = 5 // missing or malformed configuration
	VCSFailure    = 6 // stage, commit, or push failed
	LLMFailure    = 7 // model server unreachable or misconfigured
	AllDeclined   = 8 // every group reviewed and declined
)

// UsageError marks command-line misuse so it maps to code 2.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// FromError resolves an error from a run into its exit code. Wrapped
// errors are inspected through the whole chain, so a CommitError
// wrapping an OperationError still maps to VCSFailure.
func FromError(err error) int {
	if err == nil {
		return OK
	}

	var usageErr *UsageError
	var configErr *config.Error
	var commitErr *run.CommitError
	var opErr *vcs.OperationError
	var llmErr *ollama.Error

	switch {
	case errors.As(err, &usageErr):
		return UsageFailure
	case errors.Is(err, vcs.ErrNoRepository):
		return NoRepository
	case errors.Is(err, run.ErrNoChanges):
		return NoChanges
	case errors.As(err, &configErr):
		return ConfigInvalid
	case errors.Is(err, run.ErrAllDeclined):
		return AllDeclined
	case errors.As(err, &llmErr):
		return LLMFailure
	case errors.As(err, &commitErr), errors.As(err, &opErr):
		return VCSFailure
	default:
		return GeneralError
	}
}
