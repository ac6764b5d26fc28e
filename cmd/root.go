package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Buttje/aicheckin/internal/config"
	"github.com/Buttje/aicheckin/internal/exitcode"
	"github.com/Buttje/aicheckin/internal/logging"
	"github.com/Buttje/aicheckin/internal/message"
	"github.com/Buttje/aicheckin/internal/ollama"
	"github.com/Buttje/aicheckin/internal/prompt"
	"github.com/Buttje/aicheckin/internal/run"
	"github.com/Buttje/aicheckin/internal/ui"
	"github.com/Buttje/aicheckin/internal/vcs"
)

const totalSteps = 5

var (
	autoYes   bool
	forcedVCS string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "aicheckin",
	Short: "Generate reviewed, conventional commits from your working copy",
	Long: `aicheckin inspects the changed files of a git or svn working copy,
groups them by conventional commit type, asks a local Ollama model for
a commit message per group, and walks you through accepting, editing,
or declining each one. Accepted groups are committed and pushed
immediately.

Configuration is read from ~/.ollama_server/.ollama_config.json.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command under ctx and returns the run's error
// for exit-code mapping in main.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.Flags().BoolVarP(&autoYes, "yes", "y", false, "accept every generated message without review")
	rootCmd.Flags().StringVar(&forcedVCS, "vcs", "", "force the repository kind (git or svn) instead of auto-detecting")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "mirror log output to stderr")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitcode.UsageError{Err: err}
	})
}

func runRoot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := ui.New(cmd.OutOrStdout())

	step := 0
	next := func(title string) {
		step++
		out.Step(step, totalSteps, title)
	}

	next("Detecting Repository")
	client, err := detectRepository()
	if err != nil {
		out.Error("%v", err)
		return err
	}
	out.Success("Found %s repository at: %s", strings.ToUpper(string(client.Kind())), client.Root())

	next("Loading Configuration")
	cfg, err := config.Load(afero.NewOsFs())
	if err != nil {
		out.Error("Configuration error: %v", err)
		return err
	}
	out.Success("Configuration loaded")
	out.Info("LLM server: %s:%d", cfg.BaseURL, cfg.Port)
	out.Info("Model: %s", cfg.Model)

	if logPath, pathErr := config.LogPath(); pathErr == nil {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		ctx = logging.New(ctx, logging.Config{Path: logPath, Level: level, Console: verbose})
	}

	next("Initializing Model Client")
	llm, err := ollama.New(cfg.BaseURL, cfg.Port, cfg.Model, cfg.RequestTimeout, cfg.MaxTokens)
	if err != nil {
		out.Error("Model client error: %v", err)
		return err
	}
	if llm.Available(ctx) {
		out.Success("Model client ready (%s)", llm.Model())
	} else {
		out.Warning("Model server not responding; deterministic fallback messages will be used")
	}

	next("Branch Management")
	var prompter prompt.Prompter
	review := run.ReviewPolicy(run.AutoAccept{})
	setUpstream := false
	if autoYes {
		out.Info("Skipping branch creation and review (--yes)")
	} else {
		liner := prompt.NewLinerPrompter()
		defer liner.Close()
		prompter = liner
		review = &run.Interactive{Prompter: prompter, Out: out}

		created, branchErr := manageBranch(client, prompter, out)
		if branchErr != nil {
			return branchErr
		}
		setUpstream = created
	}

	next("Analyzing and Committing Changes")
	orch := &run.Orchestrator{
		VCS:         client,
		Messages:    message.NewGenerator(llm),
		Review:      review,
		Out:         out,
		SetUpstream: setUpstream,
	}

	summary, err := orch.Run(ctx)
	switch {
	case errors.Is(err, run.ErrNoChanges):
		out.Warning("No changes detected to commit.")
		return err
	case errors.Is(err, run.ErrAllDeclined):
		out.Warning("All commit groups declined; nothing committed.")
		return err
	case err != nil:
		out.Error("%v", err)
		if summary != nil && len(summary.Committed) > 0 {
			printSummary(out, summary)
		}
		return err
	}

	printSummary(out, summary)
	return nil
}

func detectRepository() (vcs.Client, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if forcedVCS == "" {
		return vcs.Detect(wd)
	}

	kind := vcs.Kind(forcedVCS)
	if kind != vcs.KindGit && kind != vcs.KindSVN {
		return nil, &exitcode.UsageError{
			Err: fmt.Errorf("invalid --vcs value %q (want git or svn)", forcedVCS),
		}
	}
	return vcs.ForKind(kind, wd)
}

// manageBranch optionally creates and switches to a fresh branch before
// committing. Branch trouble never aborts the run; the worst case is
// committing to the current branch.
func manageBranch(client vcs.Client, prompter prompt.Prompter, out *ui.Printer) (created bool, err error) {
	branch, err := client.CurrentBranch()
	if err != nil {
		out.Warning("Could not determine current branch: %v", err)
		out.Info("Continuing without branch creation")
		return false, nil
	}
	out.Info("Current branch: %s", branch)

	choice, err := prompt.Choice(prompter, "Create a new branch?", []string{"y", "n"})
	if err != nil {
		return false, err
	}
	if choice == "n" {
		out.Info("Continuing with current branch")
		return false, nil
	}

	for {
		name, promptErr := prompter.Prompt("Branch name: ")
		if promptErr != nil {
			return false, promptErr
		}
		name = strings.TrimSpace(name)
		if name == "" {
			out.Warning("Branch name cannot be empty")
			continue
		}
		if client.BranchExists(name) {
			out.Error("Branch %q already exists", name)
			continue
		}
		if createErr := client.CreateBranch(name); createErr != nil {
			out.Error("Failed to create branch: %v", createErr)
			out.Info("Continuing with current branch")
			return false, nil
		}
		out.Success("Created and switched to branch: %s", name)
		return true, nil
	}
}

func printSummary(out *ui.Printer, summary *run.Summary) {
	items := []string{
		fmt.Sprintf("Committed: %d", len(summary.Committed)),
	}
	for _, g := range summary.Committed {
		items = append(items, "  "+g.Message)
	}
	items = append(items, fmt.Sprintf("Declined: %d", len(summary.Declined)))
	for _, g := range summary.Declined {
		items = append(items, fmt.Sprintf("  %s (%d files)", g.Type, len(g.Files)))
	}
	out.SummaryBox("Run Summary", items)
}
