package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_DeliversInOrderToEverySubscriber(t *testing.T) {
	b := newBroadcaster()
	a, cancelA := b.subscribe()
	defer cancelA()
	c, cancelC := b.subscribe()
	defer cancelC()

	kinds := []OutcomeKind{OutcomeAuthenticated, OutcomeFailed, OutcomeLoggedOut}
	for _, k := range kinds {
		b.publish(Outcome{Kind: k})
	}

	for _, stream := range []<-chan Outcome{a, c} {
		for _, want := range kinds {
			assert.Equal(t, want, nextPublished(t, stream).Kind)
		}
	}
}

func TestBroadcaster_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := newBroadcaster()
	stream, cancel := b.subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.publish(Outcome{Kind: OutcomeLoggedOut})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("publish blocked on an idle subscriber")
	}

	for i := 0; i < 1000; i++ {
		nextPublished(t, stream)
	}
}

func TestBroadcaster_CloseDrainsThenCloses(t *testing.T) {
	b := newBroadcaster()
	stream, cancel := b.subscribe()
	defer cancel()

	b.publish(Outcome{Kind: OutcomeAuthenticated})
	b.close()
	b.close()
	b.publish(Outcome{Kind: OutcomeFailed})

	assert.Equal(t, OutcomeAuthenticated, nextPublished(t, stream).Kind)
	_, ok := <-stream
	assert.False(t, ok)

	late, cancelLate := b.subscribe()
	defer cancelLate()
	_, ok = <-late
	assert.False(t, ok, "subscribing after close yields a closed stream")
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := newBroadcaster()
	stream, cancel := b.subscribe()

	cancel()
	cancel()
	b.publish(Outcome{Kind: OutcomeLoggedOut})

	select {
	case _, ok := <-stream:
		require.False(t, ok)
	case <-time.After(waitFor):
		t.Fatal("stream not closed after unsubscribe")
	}
}
