// Package notification forwards weather alerts from loaded snapshots to
// external services. Each alert is sent once per deduplication window.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/AvtMob/WeatherApp/internal/display"
	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/events"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/observability/metrics"
	"github.com/AvtMob/WeatherApp/internal/viewstate"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

const (
	// DefaultDedupTTL is how long a sent alert is remembered.
	DefaultDedupTTL = 24 * time.Hour

	// DefaultSendTimeout bounds one Notify call.
	DefaultSendTimeout = 30 * time.Second
)

// AlertNotifier sends alerts that have not been sent within the dedup
// window. Failed sends are not remembered and will be retried on the next
// snapshot.
type AlertNotifier struct {
	sender  Sender
	seen    *cache.Cache
	metrics *metrics.NotificationMetrics
	log     logger.Logger
	timeout time.Duration
}

// Option configures an AlertNotifier.
type Option func(*AlertNotifier)

// WithDedupTTL overrides DefaultDedupTTL.
func WithDedupTTL(ttl time.Duration) Option {
	return func(n *AlertNotifier) {
		if ttl > 0 {
			n.seen = cache.New(ttl, 0)
		}
	}
}

// WithMetrics enables delivery metrics.
func WithMetrics(m *metrics.NotificationMetrics) Option {
	return func(n *AlertNotifier) {
		n.metrics = m
	}
}

// WithLogger sets the parent logger.
func WithLogger(l logger.Logger) Option {
	return func(n *AlertNotifier) {
		if l != nil {
			n.log = l.Module("notification")
		}
	}
}

// WithSendTimeout overrides DefaultSendTimeout.
func WithSendTimeout(d time.Duration) Option {
	return func(n *AlertNotifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// NewAlertNotifier creates a notifier delivering through sender.
func NewAlertNotifier(sender Sender, opts ...Option) (*AlertNotifier, error) {
	if sender == nil {
		return nil, errors.Newf("notification sender is required").
			Component("notification").
			Category(errors.CategoryConfiguration).
			Build()
	}

	// expired entries are purged on each Notify; no janitor goroutine
	n := &AlertNotifier{
		sender:  sender,
		seen:    cache.New(DefaultDedupTTL, 0),
		timeout: DefaultSendTimeout,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.log == nil {
		n.log = logger.Global().Module("notification")
	}
	return n, nil
}

// AlertKey identifies an alert across snapshots.
func AlertKey(location string, a *weatherapi.AlertDetail) string {
	return strings.Join([]string{location, a.Headline, a.Effective}, "|")
}

// Notify sends every alert in snap that was not sent recently and returns
// how many were delivered. Errors of individual sends are joined.
func (n *AlertNotifier) Notify(ctx context.Context, snap *weatherapi.Snapshot) (int, error) {
	if snap == nil || snap.Alerts == nil || len(snap.Alerts.Alert) == 0 {
		return 0, nil
	}
	n.seen.DeleteExpired()

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	location := snap.Location.Name
	sent := 0
	var errs []error
	for i := range snap.Alerts.Alert {
		alert := &snap.Alerts.Alert[i]
		key := AlertKey(location, alert)

		if _, found := n.seen.Get(key); found {
			n.metrics.RecordSuppressed()
			continue
		}

		title, body := FormatAlert(location, alert)
		if err := n.sender.Send(ctx, title, body); err != nil {
			n.metrics.RecordDelivery(metrics.StatusError)
			n.log.Warn("failed to send alert notification",
				logger.String("location", location),
				logger.String("headline", alert.Headline),
				logger.Error(err))
			errs = append(errs, err)
			continue
		}

		n.seen.SetDefault(key, struct{}{})
		n.metrics.RecordDelivery(metrics.StatusSuccess)
		sent++
		n.log.Info("alert notification sent",
			logger.String("location", location),
			logger.String("headline", alert.Headline))
	}
	return sent, errors.Join(errs...)
}

// Run forwards snapshots from sub until ctx is done or sub is closed.
func (n *AlertNotifier) Run(ctx context.Context, sub *events.Subscription[viewstate.Change]) {
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-sub.C():
			if !ok {
				return
			}
			if !change.Has(viewstate.FieldSnapshot) || change.State.Snapshot == nil {
				continue
			}
			if _, err := n.Notify(ctx, change.State.Snapshot); err != nil {
				n.log.Debug("some alerts were not delivered", logger.Error(err))
			}
		}
	}
}

// FormatAlert builds the notification title and plain-text body.
func FormatAlert(location string, a *weatherapi.AlertDetail) (title, body string) {
	title = "Weather alert: " + a.Headline
	if location != "" {
		title += " (" + location + ")"
	}

	var b strings.Builder
	if a.Event != "" {
		b.WriteString(a.Event + "\n")
	}
	if a.Severity != "" || a.Urgency != "" {
		fmt.Fprintf(&b, "Severity: %s, urgency: %s\n", valueOr(a.Severity), valueOr(a.Urgency))
	}
	if a.Areas != "" {
		fmt.Fprintf(&b, "Areas: %s\n", a.Areas)
	}
	if a.Effective != "" || a.Expires != "" {
		fmt.Fprintf(&b, "Valid: %s to %s\n", valueOr(a.Effective), valueOr(a.Expires))
	}
	if desc := display.AlertText(a.Desc); desc != "" {
		b.WriteString("\n" + desc + "\n")
	}
	if a.Instruction != "" {
		b.WriteString("\n" + display.AlertText(a.Instruction) + "\n")
	}
	return title, strings.TrimRight(b.String(), "\n")
}

func valueOr(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
