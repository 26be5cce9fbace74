package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createHistoryTableSQL = `CREATE TABLE IF NOT EXISTS price_history (
        url          TEXT PRIMARY KEY,
        price        BIGINT NOT NULL,
        product_name TEXT NOT NULL,
        observed_at  TIMESTAMPTZ NOT NULL
    );`

	upsertHistorySQL = `INSERT INTO price_history (
        url,
        price,
        product_name,
        observed_at
    ) VALUES (
        $1,$2,$3,$4
    )
    ON CONFLICT (url) DO UPDATE
    SET price        = EXCLUDED.price,
        product_name = EXCLUDED.product_name,
        observed_at  = EXCLUDED.observed_at;`

	listHistorySQL = `SELECT url, price, product_name, observed_at FROM price_history;`
)

// PostgresStore keeps the latest entry per URL in a price_history table.
// The in-memory mirror serves reads; every Put writes through.
type PostgresStore struct {
	pool    *pgxpool.Pool
	entries map[string]HistoryEntry
}

// NewPostgresStore wires a pgx pool into a history store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool:    pool,
		entries: make(map[string]HistoryEntry),
	}
}

// Load ensures the schema exists and reads all entries into memory.
func (s *PostgresStore) Load(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createHistoryTableSQL); err != nil {
		return fmt.Errorf("create price_history table: %w", err)
	}

	rows, err := s.pool.Query(ctx, listHistorySQL)
	if err != nil {
		return fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]HistoryEntry)
	for rows.Next() {
		var entry HistoryEntry
		if err := rows.Scan(&entry.URL, &entry.Price, &entry.ProductName, &entry.ObservedAt); err != nil {
			return fmt.Errorf("scan history entry: %w", err)
		}
		if !entry.Valid() {
			continue
		}
		entries[entry.URL] = entry
	}
	if rows.Err() != nil {
		return rows.Err()
	}

	s.entries = entries
	return nil
}

// Get returns the stored entry for a URL.
func (s *PostgresStore) Get(url string) (HistoryEntry, bool) {
	entry, ok := s.entries[url]
	return entry, ok
}

// Put upserts the entry and updates the in-memory mirror.
func (s *PostgresStore) Put(ctx context.Context, entry HistoryEntry) error {
	_, err := s.pool.Exec(ctx, upsertHistorySQL,
		entry.URL,
		entry.Price,
		entry.ProductName,
		entry.ObservedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert history entry: %w", err)
	}

	s.entries[entry.URL] = entry
	return nil
}

// Entries returns a copy of the current mapping.
func (s *PostgresStore) Entries() map[string]HistoryEntry {
	out := make(map[string]HistoryEntry, len(s.entries))
	for url, entry := range s.entries {
		out[url] = entry
	}
	return out
}

// Close releases the underlying pool resources.
func (s *PostgresStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

var _ HistoryStore = (*PostgresStore)(nil)
