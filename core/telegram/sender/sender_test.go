package sender

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func newTestSender(slept *[]time.Duration) *Sender {
	return New(Options{
		MaxRetries: 2,
		MaxWait:    5 * time.Second,
		sleep: func(_ context.Context, d time.Duration) error {
			*slept = append(*slept, d)
			return nil
		},
	})
}

func TestDoRetriesFloodWait(t *testing.T) {
	var slept []time.Duration
	s := newTestSender(&slept)

	calls := 0
	err := s.Do(context.Background(), "send", func() error {
		calls++
		if calls == 1 {
			return tele.FloodError{RetryAfter: 60}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{5 * time.Second}, slept)
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	var slept []time.Duration
	s := newTestSender(&slept)

	apiErr := &tele.Error{Code: 502, Description: "Bad Gateway"}
	calls := 0
	err := s.Do(context.Background(), "send", func() error {
		calls++
		return apiErr
	})
	assert.ErrorIs(t, err, apiErr)
	assert.Equal(t, 3, calls)
	assert.Len(t, slept, 2)
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var slept []time.Duration
	s := newTestSender(&slept)

	calls := 0
	err := s.Do(context.Background(), "send", func() error {
		calls++
		return tele.ErrBlockedByUser
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "", Classify(nil))
	assert.Equal(t, "timeout", Classify(context.DeadlineExceeded))
	assert.Equal(t, "dial", Classify(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.Equal(t, "dns", Classify(&net.DNSError{Err: "no such host"}))
	assert.Equal(t, "flood", Classify(tele.FloodError{RetryAfter: 3}))
	assert.Equal(t, "http_4xx", Classify(tele.ErrBlockedByUser))
	assert.Equal(t, "http_5xx", Classify(&tele.Error{Code: 500}))
	assert.Equal(t, "unknown", Classify(errors.New("boom")))
}
