package notification

import (
	"context"
	"io"
	"log"
	"regexp"
	"slices"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	router "github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/AvtMob/WeatherApp/internal/errors"
)

// Sender delivers one message to every configured service.
type Sender interface {
	Send(ctx context.Context, title, message string) error
}

// serviceURLPattern matches shoutrrr service URLs, which embed tokens.
var serviceURLPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^\s"']+`)

// ShoutrrrSender sends through nicholas-fedor/shoutrrr. One sender covers
// every URL.
type ShoutrrrSender struct {
	urls   []string
	sender *router.ServiceRouter
}

// NewShoutrrrSender validates urls and builds the router. timeout <= 0
// keeps the router default.
func NewShoutrrrSender(urls []string, timeout time.Duration) (*ShoutrrrSender, error) {
	if len(urls) == 0 {
		return nil, errors.Newf("at least one notification URL is required").
			Component("notification").
			Category(errors.CategoryConfiguration).
			Build()
	}

	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, errors.New(scrubError(err)).
			Component("notification").
			Category(errors.CategoryConfiguration).
			Context("url_count", len(urls)).
			Build()
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))

	return &ShoutrrrSender{urls: slices.Clone(urls), sender: sender}, nil
}

// Send delivers message and returns the first service error. The router
// applies its own timeout, so ctx is only checked before sending.
func (s *ShoutrrrSender) Send(ctx context.Context, title, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := stypes.Params{}
	if title != "" {
		params.SetTitle(title)
	}
	for _, e := range s.sender.Send(message, &params) {
		if e != nil {
			return errors.New(scrubError(e)).
				Component("notification").
				Category(errors.CategoryIntegration).
				Build()
		}
	}
	return nil
}

// scrubError replaces service URLs in err's message so tokens never reach
// logs.
func scrubError(err error) error {
	return errors.NewStd(serviceURLPattern.ReplaceAllString(err.Error(), "[url]"))
}
