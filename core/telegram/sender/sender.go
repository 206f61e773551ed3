// Package sender performs outbound Bot API calls with flood-wait handling
// and error classification.
package sender

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/logger"
	"github.com/dunyajewellery/catalogbot/core/telegram/netutil"
)

// Options controls retry behaviour.
type Options struct {
	// MaxRetries bounds retries after a flood-wait or 5xx response.
	MaxRetries int
	// MaxWait caps a single flood-wait sleep.
	MaxWait time.Duration
	// Backoff is the base delay for 5xx retries.
	Backoff time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

var sendsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "catalogbot",
		Subsystem: "telegram",
		Name:      "api_calls_total",
		Help:      "Outbound Bot API calls, by action and result",
	},
	[]string{"action", "result"},
)

// Collectors returns the sender metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{sendsTotal}
}

// Sender runs outbound calls in the caller's goroutine so replies keep
// their order.
type Sender struct {
	opts Options
}

// New returns a Sender with defaults filled in.
func New(opts Options) *Sender {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = 30 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.sleep == nil {
		opts.sleep = sleepCtx
	}
	return &Sender{opts: opts}
}

// Do runs call, retrying on flood-wait and server errors.
func (s *Sender) Do(ctx context.Context, action string, call func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	attempts := s.opts.MaxRetries + 1

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = call(); err == nil {
			sendsTotal.WithLabelValues(action, "ok").Inc()
			if attempt > 1 {
				logger.Info(ctx, logger.ComponentTG, "send.retry.success",
					slog.String("action", action),
					slog.Int("attempt", attempt),
					slog.Duration("elapsed", time.Since(start)),
				)
			}
			return nil
		}

		delay, retry := s.retryDelay(err, attempt)
		if !retry || attempt == attempts {
			break
		}
		logger.Debug(ctx, logger.ComponentTG, "send.retry.backoff",
			slog.String("action", action),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error_kind", Classify(err)),
		)
		if serr := s.opts.sleep(ctx, delay); serr != nil {
			err = serr
			break
		}
	}

	kind := Classify(err)
	sendsTotal.WithLabelValues(action, kind).Inc()
	logger.Error(ctx, logger.ComponentTG, "send.fail",
		slog.String("action", action),
		slog.String("error", netutil.Redact(err.Error())),
		slog.String("error_kind", kind),
		slog.Duration("elapsed", time.Since(start)),
	)
	return err
}

func (s *Sender) retryDelay(err error, attempt int) (time.Duration, bool) {
	var flood tele.FloodError
	if errors.As(err, &flood) {
		d := time.Duration(flood.RetryAfter) * time.Second
		if d > s.opts.MaxWait {
			d = s.opts.MaxWait
		}
		return d, true
	}
	if StatusCode(err) >= 500 {
		return s.opts.Backoff * time.Duration(attempt), true
	}
	return 0, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Classify maps an API or network error to a short label for logs and metrics.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return "timeout"
		}
		return "dns"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return "timeout"
		}
		if opErr.Op == "dial" {
			return "dial"
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}

	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return "tls"
	}

	switch status := StatusCode(err); {
	case status == http.StatusTooManyRequests:
		return "flood"
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	}
	return "unknown"
}

// StatusCode extracts the HTTP status carried by a Bot API error, or 0.
func StatusCode(err error) int {
	var floodErr tele.FloodError
	if errors.As(err, &floodErr) {
		return http.StatusTooManyRequests
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var groupErr tele.GroupError
	if errors.As(err, &groupErr) {
		return http.StatusBadRequest
	}
	return 0
}
