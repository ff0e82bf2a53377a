package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunClockDrivesCompletionWithoutCommands(t *testing.T) {
	g := NewRegistry()
	r := g.GetOrCreate("lounge")
	c := &fakeConn{}
	r.Join("a", "A", c)
	r.AddTrack("a", track("short", 50, ""))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.RunClock(ctx, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		return !r.Info().Playing
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	snap := c.lastState(t)
	assert.Nil(t, snap.CurrentTrack)
	assert.False(t, snap.IsPlaying)
}
