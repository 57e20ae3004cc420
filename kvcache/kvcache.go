// Package kvcache is a small persisted key-value cache backed by sqlite.
// The engagement layer stores one entry per post ("lastView_<postId>" →
// epoch milliseconds) so view dedup survives restarts.
package kvcache

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);`

type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache file at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Get returns the stored value and whether the key exists.
func (c *Cache) Get(key string) (int64, bool, error) {
	var v int64
	err := c.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// Put stores the value, replacing any previous entry.
func (c *Cache) Put(key string, value int64) error {
	_, err := c.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (c *Cache) Close() error {
	return c.db.Close()
}
