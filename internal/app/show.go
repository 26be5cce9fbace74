package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"retail-price-alerts/internal/alerting"
)

// Show prints the latest stored observation per URL.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openHistory(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	entries := store.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "no history entries found")
		return nil
	}

	urls := make([]string, 0, len(entries))
	for url := range entries {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	if opts.Limit > 0 && len(urls) > opts.Limit {
		urls = urls[:opts.Limit]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Observed (UTC)\tPrice\tProduct\tURL")

	for _, url := range urls {
		entry := entries[url]
		fmt.Fprintf(
			writer,
			"%s\t¥%s\t%s\t%s\n",
			entry.ObservedAt.UTC().Format(time.RFC3339),
			alerting.FormatYen(entry.Price),
			sanitizeInline(entry.ProductName),
			url,
		)
	}

	writer.Flush()
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
