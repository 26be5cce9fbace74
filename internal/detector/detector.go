package detector

import (
	"time"

	"github.com/shopspring/decimal"

	"retail-price-alerts/internal/storage"
)

// Observation is one fetch-and-extract result for a URL.
type Observation struct {
	URL         string
	Price       int64
	ProductName string
	ObservedAt  time.Time
}

// Entry converts the observation into its persisted form.
func (o Observation) Entry() storage.HistoryEntry {
	return storage.HistoryEntry{
		URL:         o.URL,
		Price:       o.Price,
		ProductName: o.ProductName,
		ObservedAt:  o.ObservedAt,
	}
}

// Kind classifies an observation against stored history.
type Kind int

const (
	// FirstSeen means no prior entry exists for the URL.
	FirstSeen Kind = iota
	// Unchanged means the price equals the stored price.
	Unchanged
	// Changed means the price differs from the stored price.
	Changed
)

func (k Kind) String() string {
	switch k {
	case FirstSeen:
		return "first_seen"
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Outcome is the result of classifying one observation.
type Outcome struct {
	Kind        Kind
	Observation Observation
	Previous    storage.HistoryEntry
	Delta       int64
	Percent     decimal.Decimal
	IsDrop      bool
}

// Classify compares a fresh observation with the (possibly absent)
// history entry for the same URL. Every difference from the immediately
// preceding stored price counts as a change, oscillations included.
// A stored entry with a non-positive price cannot exist through normal
// operation and is treated as absent; it must never reach the percent
// division.
func Classify(obs Observation, prev storage.HistoryEntry, found bool) Outcome {
	if !found || prev.Price <= 0 {
		return Outcome{Kind: FirstSeen, Observation: obs}
	}

	if obs.Price == prev.Price {
		return Outcome{Kind: Unchanged, Observation: obs, Previous: prev}
	}

	delta := obs.Price - prev.Price
	percent := decimal.NewFromInt(delta).
		Div(decimal.NewFromInt(prev.Price)).
		Mul(decimal.NewFromInt(100))

	return Outcome{
		Kind:        Changed,
		Observation: obs,
		Previous:    prev,
		Delta:       delta,
		Percent:     percent,
		IsDrop:      delta < 0,
	}
}

// FormatSignedPercent renders a percentage with explicit sign and one
// fractional digit, e.g. "+20.0" or "-2.5".
func FormatSignedPercent(d decimal.Decimal) string {
	s := d.StringFixed(1)
	if d.Sign() >= 0 {
		return "+" + s
	}
	return s
}
