// Command patchctl applies a declarative patch document to a text-file
// tree using semantic fragment references instead of line numbers.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/unxed/patchctl/internal/commitjournal"
	"github.com/unxed/patchctl/internal/config"
	"github.com/unxed/patchctl/internal/diag"
	"github.com/unxed/patchctl/internal/engine"
	"github.com/unxed/patchctl/internal/enginelog"
	"github.com/unxed/patchctl/internal/patchdoc"
	"github.com/unxed/patchctl/internal/perr"
	"github.com/unxed/patchctl/internal/review"
	"github.com/unxed/patchctl/internal/workspace"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config file (optional)")
	patchFlag := flag.String("patch", "", "path to the patch document (alternative to the positional argument)")
	dryRun := flag.Bool("dry-run", false, "compute the transaction and print diffs without writing any file")
	interactive := flag.Bool("interactive", false, "review each changed file in a terminal UI before committing")
	recoverDir := flag.String("recover", "", "restore files from a journal left behind by an interrupted commit, then exit")
	logPath := flag.String("log", "", "transaction log file path (empty disables logging)")
	noColor := flag.Bool("no-color", false, "disable colored diagnostics")
	flag.Parse()

	printer := diag.New(os.Stderr, *noColor)

	if *recoverDir != "" {
		if err := commitjournal.Recover(*recoverDir); err != nil {
			printer.Error(err)
			return 1
		}
		printer.Success("recovered files from journal %s", *recoverDir)
		return 0
	}

	patchPath := *patchFlag
	if patchPath == "" {
		if flag.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "usage: patchctl [flags] <patch-file>")
			return 2
		}
		patchPath = flag.Arg(0)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		printer.Error(err)
		return 1
	}
	if *logPath != "" {
		cfg.Logging.Path = *logPath
	}

	logger, err := enginelog.New(cfg.Logging.Path, cfg.Logging.Development)
	if err != nil {
		printer.Error(err)
		return 1
	}
	defer logger.Close()

	lock, err := workspace.AcquireLock(cfg.Workspace.Root)
	if err != nil {
		printer.Error(err)
		return 1
	}
	defer lock.Release()

	data, err := os.ReadFile(patchPath)
	if err != nil {
		printer.Error(perr.Wrap(perr.IOError, err))
		return 1
	}

	doc, err := parseDocument(data)
	if err != nil {
		printer.Error(err)
		return 1
	}

	transactionID := uuid.NewString()

	plan, err := engine.BuildPlan(doc, cfg.Workspace.Root, logger, transactionID, patchPath)
	if err != nil {
		printer.Error(err)
		return 1
	}

	changed := plan.Changed()
	if len(changed) == 0 {
		printer.Success("nothing to do (every modification is already satisfied)")
		return 0
	}

	if *dryRun {
		for _, relPath := range changed {
			if err := printer.FileDiff(relPath, plan.Before(relPath), plan.After(relPath)); err != nil {
				printer.Error(err)
				return 1
			}
		}
		printer.Info("--dry-run: %d file(s) would change, nothing written", len(changed))
		return 0
	}

	if *interactive {
		files := make([]review.FileReview, len(changed))
		for i, relPath := range changed {
			files[i] = review.FileReview{RelPath: relPath, Before: plan.Before(relPath), After: plan.After(relPath)}
		}
		model, err := tea.NewProgram(review.NewModel(files)).Run()
		if err != nil {
			printer.Error(perr.Wrap(perr.IOError, err))
			return 1
		}
		if model.(review.Model).Decision() != review.DecisionCommit {
			printer.Warn("aborted by operator, nothing written")
			return 1
		}
	}

	journal, err := commitjournal.New(cfg.Workspace.Root)
	if err != nil {
		printer.Error(err)
		return 1
	}

	result, err := plan.Commit(journal, logger, transactionID)
	if err != nil {
		printer.Error(err)
		printer.Warn("an interrupted commit can be restored with: patchctl --recover %s", journal.Dir())
		return 1
	}
	if err := journal.Close(); err != nil {
		printer.Warn("failed to clean up journal directory %s: %v", journal.Dir(), err)
	}

	printer.Success("applied patch: %d file(s) written", len(result.FilesWritten))
	return 0
}

// parseDocument picks the YAML or line-prefixed dialect by inspecting
// the first non-blank line: both dialects produce the same internal
// modification list.
func parseDocument(data []byte) (*patchdoc.Document, error) {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.Contains(trimmed, ":VERSION ") {
			return patchdoc.ParseLineForm(data)
		}
		break
	}
	return patchdoc.ParseYAML(data)
}
