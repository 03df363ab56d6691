package errors

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

const sentryFlushTimeout = 2 * time.Second

// InitSentry configures the Sentry client and installs a SentryReporter as
// the global telemetry reporter. Events are scrubbed before they leave the
// process and carry no host identification.
func InitSentry(dsn, release string) error {
	if dsn == "" {
		return Newf("sentry DSN is empty").
			Component("telemetry").
			Category(CategoryConfiguration).
			Build()
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		SampleRate:       1.0,
		AttachStacktrace: false,
		Environment:      "production",
		ServerName:       "",
		Release:          release,
		BeforeSend:       scrubEvent,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	SetTelemetryReporter(NewSentryReporter(true))
	return nil
}

// FlushSentry waits briefly for queued events. Safe to call when Sentry was
// never initialized.
func FlushSentry() {
	sentry.Flush(sentryFlushTimeout)
}

func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	event.Message = scrubMessageForPrivacy(event.Message)
	for i := range event.Exception {
		event.Exception[i].Value = scrubMessageForPrivacy(event.Exception[i].Value)
	}
	event.ServerName = ""
	event.User = sentry.User{}
	event.Request = nil
	return event
}
