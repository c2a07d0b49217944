package sapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestWaitPoll(t *testing.T) {
	lim := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.NoError(t, waitPoll(context.Background(), lim))

	// The next slot is an hour away: the deadline is reported without waiting.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	start := time.Now()
	err := waitPoll(ctx, lim)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, waitPoll(ctx, lim), context.Canceled)
}
