package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	tele "gopkg.in/telebot.v4"
)

var (
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogbot",
			Subsystem: "telegram",
			Name:      "updates_total",
			Help:      "Telegram updates received, by kind",
		},
		[]string{"kind"},
	)

	repliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogbot",
			Subsystem: "telegram",
			Name:      "replies_total",
			Help:      "Messages sent or edited in response to updates",
		},
		[]string{"keyboard"},
	)

	rateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogbot",
			Subsystem: "telegram",
			Name:      "rate_limited_total",
			Help:      "Updates dropped by the per-user rate limit",
		},
		[]string{"kind"},
	)

	panicsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "catalogbot",
		Subsystem: "telegram",
		Name:      "handler_panics_total",
		Help:      "Handler panics recovered",
	})
)

// Collectors returns the Telegram middleware metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{updatesTotal, repliesTotal, rateLimitedTotal, panicsTotal}
}

// UpdateMetricsMiddleware counts inbound updates by kind.
func UpdateMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		updatesTotal.WithLabelValues(UpdateKind(c.Update())).Inc()
		return next(c)
	}
}

// metricsContext wraps tele.Context to count sent messages and detect keyboard usage.
type metricsContext struct{ tele.Context }

func (m metricsContext) incMessages(hasKB bool) {
	n, _ := m.Get("messages").(int)
	m.Set("messages", n+1)
	if hasKB {
		m.Set("kb", true)
		repliesTotal.WithLabelValues("true").Inc()
		return
	}
	repliesTotal.WithLabelValues("false").Inc()
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Send proxies tele.Context.Send while updating message counters.
func (m metricsContext) Send(what interface{}, opts ...interface{}) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.incMessages(hasKeyboard(opts))
	}
	return err
}

// SendAlbum proxies tele.Context.SendAlbum while updating message counters.
func (m metricsContext) SendAlbum(a tele.Album, opts ...interface{}) error {
	err := m.Context.SendAlbum(a, opts...)
	if err == nil {
		m.incMessages(hasKeyboard(opts))
	}
	return err
}

// Reply proxies tele.Context.Reply while updating message counters.
func (m metricsContext) Reply(what interface{}, opts ...interface{}) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.incMessages(hasKeyboard(opts))
	}
	return err
}

// Edit proxies tele.Context.Edit while updating message counters.
func (m metricsContext) Edit(what interface{}, opts ...interface{}) error {
	err := m.Context.Edit(what, opts...)
	if err == nil {
		m.incMessages(hasKeyboard(opts))
	}
	return err
}

// EditOrSend proxies tele.Context.EditOrSend while updating message counters.
func (m metricsContext) EditOrSend(what interface{}, opts ...interface{}) error {
	err := m.Context.EditOrSend(what, opts...)
	if err == nil {
		m.incMessages(hasKeyboard(opts))
	}
	return err
}

// MessageMetricsMiddleware instruments context to track messages count and keyboard usage.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set("messages", 0)
		c.Set("kb", false)
		return next(metricsContext{Context: c})
	}
}

// GetCounters reads message count and keyboard presence flags from context.
func GetCounters(c tele.Context) (int, bool) {
	msgs, _ := c.Get("messages").(int)
	kb, _ := c.Get("kb").(bool)
	return msgs, kb
}
