package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status classifies err for the status attribute: ok, canceled or error.
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}

// Took is the time since start rounded to milliseconds.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to whole milliseconds; negative values become 0.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// Preview joins the first limit values and notes how many were left out,
// e.g. "a.sql, b.sql (+3 more)".
func Preview(values []string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	head := strings.Join(values[:limit], ", ")
	rest := fmt.Sprintf("+%d more", len(values)-limit)
	if head == "" {
		return rest
	}
	return head + " (" + rest + ")"
}
