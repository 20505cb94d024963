// Atomic commits through a staging file.
//
// With Config.AtomicWrites the encoded document goes to path+".tmp",
// which is synced and then renamed over the live file. The live file is
// intact until the rename succeeds, so a crash during the write phase at
// worst leaves an orphaned staging file. Load removes any such file
// before opening the database.
//
// The rename replaces the inode the database holds open, so the handle is
// closed first and reopened on the new file afterwards.
package docfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

func (db *Database) stagingPath() string {
	return db.path + ".tmp"
}

// stage writes data to the staging file and renames it into place. The
// caller holds db.mu.
func (db *Database) stage(data []byte) error {
	tmpPath := db.stagingPath()

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, db.config.FileMode)
	if err != nil {
		return fmt.Errorf("stage: create temp: %w", err)
	}

	n, err := tmp.Write(data)
	if err == nil && n != len(data) {
		err = fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(data))
	}
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("stage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("stage: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("stage: close temp: %w", err)
	}

	if err := db.file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("stage: close: %w", err)
	}
	db.file = nil

	if err := os.Rename(tmpPath, db.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("stage: rename: %w", err)
	}

	file, err := os.OpenFile(db.path, os.O_RDWR, db.config.FileMode)
	if err != nil {
		return fmt.Errorf("stage: reopen: %w", err)
	}
	db.file = file
	return nil
}

// clearStaging removes a staging file left by a crash mid-commit. The
// live file is still the last complete commit, so the leftover is
// discarded.
func (db *Database) clearStaging() {
	err := os.Remove(db.stagingPath())
	switch {
	case err == nil:
		db.log.Warn("removed stale staging file", "staging", db.stagingPath())
	case !errors.Is(err, fs.ErrNotExist):
		db.log.Warn("could not remove stale staging file", "staging", db.stagingPath(), "err", err)
	}
}
