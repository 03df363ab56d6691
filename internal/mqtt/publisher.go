package mqtt

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/events"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/viewstate"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// idSanitizer replaces characters that are not safe in a topic level.
var idSanitizer = regexp.MustCompile(`[^a-z0-9_-]`)

// SanitizeID lowercases id and keeps it to a single safe topic level.
func SanitizeID(id string) string {
	sanitized := idSanitizer.ReplaceAllString(strings.ToLower(strings.TrimSpace(id)), "_")
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		sanitized = "unknown"
	}
	return sanitized
}

// Publisher publishes snapshot summaries to <topic>/<location>.
type Publisher struct {
	client Client
	topic  string
	log    logger.Logger
	now    func() time.Time
}

// NewPublisher creates a publisher using base topic. log may be nil.
func NewPublisher(client Client, topic string, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.Global().Module("mqtt")
	} else {
		log = log.Module("mqtt")
	}
	topic = strings.TrimRight(topic, "/")
	if topic == "" {
		topic = DefaultConfig().Topic
	}
	return &Publisher{client: client, topic: topic, log: log, now: time.Now}
}

// TopicFor returns the topic a location's snapshots are published to.
func (p *Publisher) TopicFor(location string) string {
	return p.topic + "/" + SanitizeID(location)
}

// Publish sends the summary of snap.
func (p *Publisher) Publish(ctx context.Context, snap *weatherapi.Snapshot) error {
	if snap == nil {
		return nil
	}
	payload, err := json.Marshal(NewSnapshotDTO(snap, p.now()))
	if err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryValidation).
			Build()
	}
	return p.client.Publish(ctx, p.TopicFor(snap.Location.Name), payload)
}

// Run publishes every loaded snapshot from sub until ctx is done or sub is
// closed. Publish failures are logged and do not stop the loop.
func (p *Publisher) Run(ctx context.Context, sub *events.Subscription[viewstate.Change]) {
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
			if err := p.Publish(ctx, change.State.Snapshot); err != nil {
				p.log.Warn("failed to publish snapshot",
					logger.String("location", change.State.Snapshot.Location.Name),
					logger.Error(err))
			}
		}
	}
}
