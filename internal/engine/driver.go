package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/unxed/patchctl/internal/patchdoc"
	"github.com/unxed/patchctl/internal/perr"
)

// Logger receives transaction lifecycle events. Satisfied by
// *enginelog.Logger.
type Logger interface {
	TransactionStarted(transactionID, patchPath string, fileCount int)
	ModificationApplied(filePath string, index int, action string)
	ModificationSkipped(filePath string, index int, action string)
	TransactionCommitted(transactionID string, filesWritten int)
	TransactionAborted(transactionID string, err error)
}

// Journal receives a file's pre-image before it is overwritten, so a
// crash mid-commit can be recovered from. Satisfied by
// *commitjournal.Journal.
type Journal interface {
	Backup(relPath string, existed bool, original []byte) error
}

// NopLogger discards every event; used when no logger is configured.
type NopLogger struct{}

func (NopLogger) TransactionStarted(string, string, int)  {}
func (NopLogger) ModificationApplied(string, int, string) {}
func (NopLogger) ModificationSkipped(string, int, string) {}
func (NopLogger) TransactionCommitted(string, int)        {}
func (NopLogger) TransactionAborted(string, error)        {}

// NopJournal records nothing; Commit falls back to it when given a nil
// journal, in which case files are written without pre-image backups.
type NopJournal struct{}

func (NopJournal) Backup(string, bool, []byte) error { return nil }

// Result summarizes a transaction that reached its decision point
// (either committed, or would have under --dry-run).
type Result struct {
	FilesWritten []string
	DryRun       bool
}

// Plan is every file-session a patch document touches, fully mutated
// in memory but not yet written to disk. A Plan that built successfully
// is guaranteed committable: every located, idempotency-checked,
// mutated modification already succeeded.
type Plan struct {
	root   string
	doc    *patchdoc.Document
	order  []string
	byPath map[string]*FileSession
}

// Changed returns the relative paths of every file the plan will
// write, in the order their first modification appeared.
func (p *Plan) Changed() []string {
	var out []string
	for _, relPath := range p.order {
		if p.byPath[relPath].Dirty {
			out = append(out, relPath)
		}
	}
	return out
}

// Before returns relPath's content as it stood before the transaction
// (empty for a file a CREATE_FILE is introducing).
func (p *Plan) Before(relPath string) string {
	return string(p.byPath[relPath].OriginalBytes)
}

// After returns relPath's finalized post-transaction content.
func (p *Plan) After(relPath string) string {
	return string(p.byPath[relPath].Finalize())
}

// BuildPlan parses modifications against Root's file-sessions in
// document order: locate, idempotency-check, mutate. Any unrecovered
// error aborts immediately; nothing is written regardless of outcome.
func BuildPlan(doc *patchdoc.Document, root string, logger Logger, transactionID, patchPath string) (*Plan, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	logger.TransactionStarted(transactionID, patchPath, len(doc.Changes))

	p := &Plan{root: root, doc: doc, byPath: make(map[string]*FileSession)}

	for _, fc := range doc.Changes {
		sess, ok := p.byPath[fc.FilePath]
		if !ok {
			var err error
			sess, err = LoadSession(root, fc.FilePath)
			if err != nil {
				logger.TransactionAborted(transactionID, err)
				return nil, err
			}
			p.byPath[fc.FilePath] = sess
			p.order = append(p.order, fc.FilePath)
		}

		for _, mod := range fc.Modifications {
			applied, err := sess.Apply(mod, fc.Newline)
			if err != nil {
				if pe, ok := perr.AsError(err); ok {
					err = pe.WithContext(fc.FilePath, mod.Index)
				}
				logger.TransactionAborted(transactionID, err)
				return nil, err
			}
			if applied {
				logger.ModificationApplied(fc.FilePath, mod.Index, string(mod.Action))
			} else {
				logger.ModificationSkipped(fc.FilePath, mod.Index, string(mod.Action))
			}
		}
	}
	return p, nil
}

// Commit backs up and writes every changed file via temp-file-plus-
// rename. Called only after BuildPlan succeeded, so a Commit failure
// is an IOError, not a semantic patch failure.
func (p *Plan) Commit(journal Journal, logger Logger, transactionID string) (*Result, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	if journal == nil {
		journal = NopJournal{}
	}

	written := p.Changed()

	for _, relPath := range written {
		sess := p.byPath[relPath]
		if err := journal.Backup(relPath, sess.ExistedAtLoad, sess.OriginalBytes); err != nil {
			logger.TransactionAborted(transactionID, err)
			return nil, err
		}
	}
	for _, relPath := range written {
		if err := writeAtomic(p.root, relPath, p.byPath[relPath].Finalize()); err != nil {
			logger.TransactionAborted(transactionID, err)
			return nil, err
		}
	}

	logger.TransactionCommitted(transactionID, len(written))
	return &Result{FilesWritten: written}, nil
}

// ApplyOptions configures a one-shot Apply run.
type ApplyOptions struct {
	Root          string
	TransactionID string
	PatchPath     string
	DryRun        bool
	Logger        Logger
	Journal       Journal
}

// Apply is the non-interactive convenience entry point: build a plan
// and, unless DryRun is set, commit it immediately. Callers that need
// to inspect the plan first (the interactive reviewer, a dry-run diff
// preview) should call BuildPlan and Commit directly.
func Apply(doc *patchdoc.Document, opts ApplyOptions) (*Result, error) {
	plan, err := BuildPlan(doc, opts.Root, opts.Logger, opts.TransactionID, opts.PatchPath)
	if err != nil {
		return nil, err
	}
	if opts.DryRun {
		return &Result{FilesWritten: plan.Changed(), DryRun: true}, nil
	}
	return plan.Commit(opts.Journal, opts.Logger, opts.TransactionID)
}

func writeAtomic(root, relPath string, data []byte) error {
	full := filepath.Join(root, relPath)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return perr.Wrap(perr.IOError, err)
	}

	tmp, err := os.CreateTemp(dir, ".patchctl-*.tmp")
	if err != nil {
		return perr.Wrap(perr.IOError, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return perr.Wrap(perr.IOError, err)
	}
	if err := tmp.Close(); err != nil {
		return perr.Wrap(perr.IOError, err)
	}

	if info, statErr := os.Stat(full); statErr == nil {
		_ = os.Chmod(tmpPath, info.Mode())
	} else {
		_ = os.Chmod(tmpPath, 0644)
	}

	if err := os.Rename(tmpPath, full); err != nil {
		return perr.Wrap(perr.IOError, fmt.Errorf("atomic rename failed: %w", err))
	}
	return nil
}
