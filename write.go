// Write-through commit.
//
// Every mutation rewrites the whole file before returning: truncate to
// zero, seek to the start, write the pretty encoding of the root. There
// is no buffering between calls. A crash between the truncate and the
// write leaves an empty file, which Load reads back as an empty document;
// set Config.AtomicWrites to commit through a staging file instead.
//
// Any I/O failure moves the database to StateFailed, since the file may
// no longer match the tree. Every later call returns ErrUnusable.
package docfile

import (
	"fmt"
	"io"
)

// commit persists the root. The caller holds db.mu.
func (db *Database) commit(op, key string) error {
	data, err := db.config.Codec.EncodePretty(db.root)
	if err != nil {
		return db.fail(op, key, fmt.Errorf("encode: %w", err))
	}

	if db.config.AtomicWrites {
		err = db.stage(data)
	} else {
		err = db.rewrite(data)
	}
	if err != nil {
		return db.fail(op, key, err)
	}

	db.log.Debug("commit", "op", op, "key", key, "bytes", len(data))
	return nil
}

// rewrite truncates the open handle and writes data from offset zero.
func (db *Database) rewrite(data []byte) error {
	if err := db.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if _, err := db.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	n, err := db.file.Write(data)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("write: %w: %d of %d bytes", ErrShortWrite, n, len(data))
	}
	if db.config.SyncWrites {
		if err := db.file.Sync(); err != nil {
			return fmt.Errorf("sync: %w", err)
		}
	}
	return nil
}

// fail marks the database unusable and wraps the cause.
func (db *Database) fail(op, key string, err error) error {
	db.state = StateFailed
	db.log.Error("commit failed", "op", op, "key", key, "err", err)
	return fmt.Errorf("%w: %s %q: %w", ErrUnusable, op, key, err)
}
