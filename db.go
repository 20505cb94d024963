// Core database type and lifecycle operations.
//
// Database owns the root tree and the open backing file. A single mutex
// guards both as one unit: every public call holds it from start to
// finish, so no call observes another's half-applied mutation. Calls are
// not transactions, though; a Find followed by an Insert can interleave
// with another goroutine's writes.
package docfile

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Lifecycle states.
const (
	StateUnloaded = 0 // Constructed, no file or tree yet
	StateLoaded   = 1 // Ready for reads and writes
	StateClosed   = 2 // Closed by the caller
	StateFailed   = 3 // A commit failed; file and tree may disagree
)

// Config holds database configuration options. The zero value is usable.
type Config struct {
	HashAlgorithm int          // 1=xxHash3, 2=FNV1a, 3=Blake2b
	Codec         Codec        // On-disk codec (default JSONCodec)
	Logger        *slog.Logger // Diagnostics (default discards)
	FileMode      os.FileMode  // Permissions for a newly created file (default 0644)
	SyncWrites    bool         // Call fsync after every commit
	AtomicWrites  bool         // Commit via staging file and rename
}

// Database is a single-file document store.
type Database struct {
	path   string
	config Config
	log    *slog.Logger
	file   *os.File
	root   *Tree
	state  int
	mu     sync.Mutex
}

// New returns a database for path. No I/O happens until Load.
func New(path string, config Config) *Database {
	// Default config values
	if config.HashAlgorithm == 0 {
		config.HashAlgorithm = AlgXXHash3
	}
	if config.Codec == nil {
		config.Codec = JSONCodec{}
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.FileMode == 0 {
		config.FileMode = 0644
	}

	return &Database{
		path:   path,
		config: config,
		log:    config.Logger.With("path", path),
	}
}

// Open is New followed by Load.
func Open(path string, config Config) (*Database, error) {
	db := New(path, config)
	if err := db.Load(); err != nil {
		return nil, err
	}
	return db, nil
}

// Path returns the backing file path.
func (db *Database) Path() string {
	return db.path
}

// Load opens the backing file, creating it if missing, and decodes its
// contents. An empty file is an empty document; anything else must decode
// cleanly or Load returns a *DecodeError.
func (db *Database) Load() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch db.state {
	case StateLoaded, StateFailed:
		return ErrLoaded
	case StateClosed:
		return ErrClosed
	}

	db.clearStaging()

	file, err := os.OpenFile(db.path, os.O_RDWR|os.O_CREATE, db.config.FileMode)
	if err != nil {
		return fmt.Errorf("load: open: %w", err)
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("load: read: %w", err)
	}

	root := NewTree()
	if len(raw) > 0 {
		root, err = db.config.Codec.Decode(raw)
		if err != nil {
			file.Close()
			return err
		}
	}

	db.file = file
	db.root = root
	db.state = StateLoaded
	db.log.Info("loaded", "entries", root.Len(), "bytes", len(raw))
	return nil
}

// Close releases the file handle. Later calls return ErrClosed.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.state == StateClosed {
		return nil
	}
	db.state = StateClosed
	db.root = nil
	if db.file == nil {
		return nil
	}
	err := db.file.Close()
	db.file = nil
	return err
}

// acquire takes the lock and checks the database is usable. On success
// the caller must release db.mu.
func (db *Database) acquire() error {
	db.mu.Lock()
	switch db.state {
	case StateLoaded:
		return nil
	case StateUnloaded:
		db.mu.Unlock()
		return ErrNotLoaded
	case StateClosed:
		db.mu.Unlock()
		return ErrClosed
	default:
		db.mu.Unlock()
		return ErrUnusable
	}
}

// mutate applies fn to the root and commits the result.
func (db *Database) mutate(op, key string, fn func(*Tree) error) error {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.mu.Unlock()

	if err := fn(db.root); err != nil {
		return err
	}
	return db.commit(op, key)
}

// Insert creates or overwrites a string entry and commits.
func (db *Database) Insert(key, value string) error {
	return db.mutate("insert", key, func(t *Tree) error {
		return t.Insert(key, value)
	})
}

// InsertNumber creates or overwrites a number entry and commits.
func (db *Database) InsertNumber(key string, n uint64) error {
	return db.mutate("insert-number", key, func(t *Tree) error {
		return t.InsertNumber(key, n)
	})
}

// InsertBool creates or overwrites a boolean entry and commits.
func (db *Database) InsertBool(key string, b bool) error {
	return db.mutate("insert-bool", key, func(t *Tree) error {
		return t.InsertBool(key, b)
	})
}

// InsertArray creates or overwrites an array entry and commits.
func (db *Database) InsertArray(key string, items []string) error {
	return db.mutate("insert-array", key, func(t *Tree) error {
		return t.InsertArray(key, items)
	})
}

// InsertTree stores a deep copy of child under key and commits. The child
// is left untouched and can be reused.
func (db *Database) InsertTree(key string, child *Tree) error {
	return db.mutate("insert-tree", key, func(t *Tree) error {
		return t.InsertTree(key, child)
	})
}

// Remove deletes key and commits. Removing an absent key is not an error.
func (db *Database) Remove(key string) error {
	return db.mutate("remove", key, func(t *Tree) error {
		t.Remove(key)
		return nil
	})
}

// Find returns the value stored under key. A missing key yields a
// *KeyNotFoundError, which matches ErrNotFound.
func (db *Database) Find(key string) (Value, error) {
	if err := db.acquire(); err != nil {
		return Value{}, err
	}
	defer db.mu.Unlock()

	return db.root.Find(key)
}

// Contains reports whether key is present.
func (db *Database) Contains(key string) (bool, error) {
	if err := db.acquire(); err != nil {
		return false, err
	}
	defer db.mu.Unlock()

	return db.root.Contains(key), nil
}

// Len returns the number of top-level entries.
func (db *Database) Len() (int, error) {
	if err := db.acquire(); err != nil {
		return 0, err
	}
	defer db.mu.Unlock()

	return db.root.Len(), nil
}

// Tree returns a detached deep copy of the root tree.
func (db *Database) Tree() (*Tree, error) {
	if err := db.acquire(); err != nil {
		return nil, err
	}
	defer db.mu.Unlock()

	return db.root.Clone(), nil
}

// Fingerprint hashes the encoded root. After any commit this equals the
// fingerprint of the file's bytes.
func (db *Database) Fingerprint() (string, error) {
	if err := db.acquire(); err != nil {
		return "", err
	}
	defer db.mu.Unlock()

	out, err := db.config.Codec.EncodePretty(db.root)
	if err != nil {
		return "", err
	}
	return Fingerprint(out, db.config.HashAlgorithm), nil
}

// Snapshot writes a compressed snapshot of the root tree to w.
func (db *Database) Snapshot(w io.Writer) error {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.mu.Unlock()

	return db.root.WriteSnapshot(w)
}

// String returns the pretty JSON form of the root, or "" when the
// database is not loaded.
func (db *Database) String() string {
	if err := db.acquire(); err != nil {
		return ""
	}
	defer db.mu.Unlock()

	return db.root.String()
}
