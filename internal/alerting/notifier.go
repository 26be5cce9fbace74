package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"retail-price-alerts/internal/detector"
)

// Embed colors and titles follow the webhook's display conventions:
// green for price drops, orange for increases.
const (
	colorDrop = 0x00ff00
	colorRise = 0xff9900

	titleDrop   = "🎉 値下げ検知！"
	titleChange = "📈 価格変更"
)

// Notifier delivers price change alerts.
type Notifier interface {
	Notify(ctx context.Context, outcome detector.Outcome) error
	Announce(ctx context.Context, title, description string) error
}

// WebhookNotifier delivers embeds to a webhook endpoint. The endpoint
// signals acceptance with HTTP 204 and nothing else.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewWebhookNotifier constructs a webhook notifier.
func NewWebhookNotifier(url string, timeout time.Duration, logger zerolog.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "alert_webhook").Logger(),
	}
}

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp"`
}

type embedPayload struct {
	Embeds []embed `json:"embeds"`
}

// Notify renders the change as an embed and posts it.
func (n *WebhookNotifier) Notify(ctx context.Context, outcome detector.Outcome) error {
	title := titleChange
	color := colorRise
	if outcome.IsDrop {
		title = titleDrop
		color = colorDrop
	}

	if err := n.post(ctx, title, renderMessage(outcome), color); err != nil {
		return err
	}

	n.logger.Info().Str("url", outcome.Observation.URL).
		Int64("delta", outcome.Delta).
		Bool("is_drop", outcome.IsDrop).
		Msg("change alert delivered")
	return nil
}

// Announce posts a plain informational embed, e.g. at monitor startup.
func (n *WebhookNotifier) Announce(ctx context.Context, title, description string) error {
	return n.post(ctx, title, description, colorRise)
}

func (n *WebhookNotifier) post(ctx context.Context, title, description string, color int) error {
	payload := embedPayload{Embeds: []embed{{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}}}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("webhook delivery rejected: status %d", resp.StatusCode)
	}

	return nil
}

func renderMessage(outcome detector.Outcome) string {
	direction := "📈 **値上げ**"
	if outcome.IsDrop {
		direction = "📉 **値下げ!**"
	}

	builder := strings.Builder{}
	builder.WriteString(direction + "\n\n")
	builder.WriteString(fmt.Sprintf("**商品:** %s\n", outcome.Observation.ProductName))
	builder.WriteString(fmt.Sprintf("**前回:** ¥%s\n", FormatYen(outcome.Previous.Price)))
	builder.WriteString(fmt.Sprintf("**現在:** ¥%s\n", FormatYen(outcome.Observation.Price)))
	builder.WriteString(fmt.Sprintf("**変動:** ¥%s (%s%%)\n\n", formatSignedYen(outcome.Delta), detector.FormatSignedPercent(outcome.Percent)))
	builder.WriteString(fmt.Sprintf("[🛒 購入ページへ](%s)", outcome.Observation.URL))
	return builder.String()
}

// FormatYen groups a yen amount with thousands separators.
func FormatYen(v int64) string {
	s := strconv.FormatInt(v, 10)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	grouped := strings.Join(parts, ",")
	if negative {
		return "-" + grouped
	}
	return grouped
}

func formatSignedYen(v int64) string {
	if v >= 0 {
		return "+" + FormatYen(v)
	}
	return FormatYen(v)
}

// NopNotifier logs changes locally when no webhook is configured.
type NopNotifier struct {
	logger zerolog.Logger
}

// NewNopNotifier constructs the fallback notifier.
func NewNopNotifier(logger zerolog.Logger) *NopNotifier {
	return &NopNotifier{logger: logger.With().Str("component", "alert_nop").Logger()}
}

// Notify records the change in the log and succeeds.
func (n *NopNotifier) Notify(_ context.Context, outcome detector.Outcome) error {
	n.logger.Info().Str("url", outcome.Observation.URL).
		Str("product", outcome.Observation.ProductName).
		Int64("previous", outcome.Previous.Price).
		Int64("current", outcome.Observation.Price).
		Bool("is_drop", outcome.IsDrop).
		Msg("price change detected (webhook not configured)")
	return nil
}

// Announce records the announcement in the log and succeeds.
func (n *NopNotifier) Announce(_ context.Context, title, description string) error {
	n.logger.Info().Str("title", title).Str("description", description).
		Msg("announcement (webhook not configured)")
	return nil
}

var (
	_ Notifier = (*WebhookNotifier)(nil)
	_ Notifier = (*NopNotifier)(nil)
)
