package include

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// StdlibCache memoizes resolved std:<name> module source behind a small
// sqlite database, keyed by module name plus the source file's mtime so a
// stale cache entry never outlives an edited stdlib module. resolveStd
// consults it after findStdlib has located the stdlib directory and before
// reading the module file, turning every std include after the first
// resolve of a given module, across process runs, into a single indexed
// lookup rather than a repeat file read.
type StdlibCache struct {
	db *sql.DB
}

// OpenStdlibCache opens (creating if absent) the sqlite cache database at
// path. An empty path opens an in-memory database, useful for tests and for
// short-lived driver invocations that don't want to leave a file behind.
func OpenStdlibCache(path string) (*StdlibCache, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening stdlib cache %q: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS stdlib_modules (
	name    TEXT NOT NULL,
	path    TEXT NOT NULL,
	mtime   INTEGER NOT NULL,
	source  TEXT NOT NULL,
	dir     TEXT NOT NULL,
	PRIMARY KEY (name, path)
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing stdlib cache schema: %w", err)
	}
	return &StdlibCache{db: db}, nil
}

func (c *StdlibCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the cached source for name resolved against path, or
// ok=false on a miss or if the on-disk file has been modified since it was
// cached (a changed mtime invalidates the entry rather than serving stale
// text).
func (c *StdlibCache) Lookup(name, path string) (source, dir string, ok bool) {
	if c == nil || c.db == nil {
		return "", "", false
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return "", "", false
	}
	row := c.db.QueryRow(
		`SELECT source, dir, mtime FROM stdlib_modules WHERE name = ? AND path = ?`,
		name, path,
	)
	var cachedSource, cachedDir string
	var cachedMtime int64
	if err := row.Scan(&cachedSource, &cachedDir, &cachedMtime); err != nil {
		return "", "", false
	}
	if cachedMtime != info.ModTime().UnixNano() {
		return "", "", false
	}
	return cachedSource, cachedDir, true
}

// Put records name's resolved source under path, stamped with path's
// current mtime so a later edit is detected by Lookup.
func (c *StdlibCache) Put(name, path, source, dir string) {
	if c == nil || c.db == nil {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	c.db.Exec(
		`INSERT INTO stdlib_modules (name, path, mtime, source, dir) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name, path) DO UPDATE SET mtime = excluded.mtime, source = excluded.source, dir = excluded.dir`,
		name, path, info.ModTime().UnixNano(), source, dir,
	)
}
