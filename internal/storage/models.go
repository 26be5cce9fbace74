package storage

import (
	"context"
	"time"

	"retail-price-alerts/internal/extractor"
)

// HistoryEntry is the last confirmed observation persisted for a URL.
type HistoryEntry struct {
	URL         string    `json:"url"`
	Price       int64     `json:"price"`
	ProductName string    `json:"product_name"`
	ObservedAt  time.Time `json:"timestamp"`
}

// Valid reports whether the entry holds a plausible price. An entry
// outside the extraction bounds can only come from a hand-edited or
// partially written store and must be treated as absent.
func (e HistoryEntry) Valid() bool {
	return e.Price >= extractor.MinPrice && e.Price <= extractor.MaxPrice
}

// HistoryStore persists the url → HistoryEntry mapping. Load runs once
// at startup; Put replaces the entry for its URL and flushes durably
// before returning. Entries are never deleted, only replaced.
type HistoryStore interface {
	Load(ctx context.Context) error
	Get(url string) (HistoryEntry, bool)
	Put(ctx context.Context, entry HistoryEntry) error
	Entries() map[string]HistoryEntry
	Close()
}
