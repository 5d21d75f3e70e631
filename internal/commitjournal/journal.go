// Package commitjournal records pre-image backups of every file a
// transaction is about to touch, so a crash between "buffers
// finalized" and "all renames complete" can be recovered from by
// restoring the backups: a plain per-transaction directory of copies
// plus a manifest, rather than a shadow git repository — history and
// branching are out of scope for this engine.
package commitjournal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/unxed/patchctl/internal/perr"
)

// Entry records one file's state before a transaction modified it.
type Entry struct {
	RelPath string `json:"rel_path"`
	Existed bool   `json:"existed"`
	// BackupName is the journal-relative file holding the pre-image.
	// Empty when Existed is false (the file did not exist and a
	// recovery should remove it).
	BackupName string `json:"backup_name,omitempty"`
}

// Manifest is the journal directory's crash-recoverable record.
type Manifest struct {
	TransactionID string   `json:"transaction_id"`
	TargetRoot    string   `json:"target_root"`
	Entries       []Entry  `json:"entries"`
}

// Journal accumulates pre-image backups for one transaction under a
// temp directory, flushing the manifest to disk after every backup so
// a mid-commit crash leaves enough information to recover.
type Journal struct {
	dir        string
	targetRoot string
	manifest   Manifest
}

// New creates a fresh journal directory under os.TempDir() for a
// transaction rooted at targetRoot.
func New(targetRoot string) (*Journal, error) {
	id := uuid.NewString()
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("patchctl-journal-%s", id))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, perr.Wrap(perr.IOError, err)
	}
	j := &Journal{
		dir:        dir,
		targetRoot: targetRoot,
		manifest:   Manifest{TransactionID: id, TargetRoot: targetRoot},
	}
	if err := j.flush(); err != nil {
		return nil, err
	}
	return j, nil
}

// Dir returns the journal's directory, surfaced to the caller so it
// can be reported for a later --recover invocation if the transaction
// aborts mid-commit.
func (j *Journal) Dir() string {
	return j.dir
}

// Backup records relPath's pre-modification state. existed is false
// and original nil for a file a CREATE_FILE is about to create.
func (j *Journal) Backup(relPath string, existed bool, original []byte) error {
	entry := Entry{RelPath: relPath, Existed: existed}
	if existed {
		backupName := fmt.Sprintf("%d.bak", len(j.manifest.Entries))
		if err := os.WriteFile(filepath.Join(j.dir, backupName), original, 0644); err != nil {
			return perr.Wrap(perr.IOError, err)
		}
		entry.BackupName = backupName
	}
	j.manifest.Entries = append(j.manifest.Entries, entry)
	return j.flush()
}

func (j *Journal) flush() error {
	data, err := json.MarshalIndent(j.manifest, "", "  ")
	if err != nil {
		return perr.Wrap(perr.IOError, err)
	}
	if err := os.WriteFile(filepath.Join(j.dir, "manifest.json"), data, 0644); err != nil {
		return perr.Wrap(perr.IOError, err)
	}
	return nil
}

// Close discards the journal directory after a successful commit; the
// pre-images are no longer needed.
func (j *Journal) Close() error {
	return os.RemoveAll(j.dir)
}

// Recover restores every file recorded in the journal at dir to its
// pre-transaction state: existing files are overwritten from their
// backup, files that did not previously exist are removed.
func Recover(dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return perr.Wrap(perr.IOError, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return perr.New(perr.MalformedPatch, "invalid journal manifest: %v", err)
	}

	for _, entry := range m.Entries {
		full := filepath.Join(m.TargetRoot, entry.RelPath)
		if !entry.Existed {
			if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
				return perr.Wrap(perr.IOError, err)
			}
			continue
		}
		backup, err := os.ReadFile(filepath.Join(dir, entry.BackupName))
		if err != nil {
			return perr.Wrap(perr.IOError, err)
		}
		if err := os.WriteFile(full, backup, 0644); err != nil {
			return perr.Wrap(perr.IOError, err)
		}
	}
	return nil
}
