package stream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	id, frames := hub.Subscribe()
	defer hub.Unsubscribe(id)

	frame := []byte{0xFD, 0x00, 0x01}
	hub.Publish(frame)

	select {
	case got := <-frames:
		assert.Equal(t, frame, got)
	default:
		t.Fatal("expected a buffered frame")
	}
}

func TestHubSubscriberCount(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.SubscriberCount())

	a, _ := hub.Subscribe()
	b, _ := hub.Subscribe()
	assert.Equal(t, 2, hub.SubscriberCount())

	hub.Unsubscribe(a)
	assert.Equal(t, 1, hub.SubscriberCount())
	hub.Unsubscribe(b)
	assert.Equal(t, 0, hub.SubscriberCount())

	// Unsubscribing twice is harmless.
	hub.Unsubscribe(b)
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	id, frames := hub.Subscribe()
	hub.Unsubscribe(id)

	_, ok := <-frames
	assert.False(t, ok)
}

func TestHubSlowSubscriberMissesFrames(t *testing.T) {
	hub := NewHub()
	id, frames := hub.Subscribe()
	defer hub.Unsubscribe(id)

	// Publish never blocks, even past the buffer depth.
	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Publish([]byte{byte(i)})
	}

	received := 0
	for {
		select {
		case <-frames:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestHubPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	require.NotPanics(t, func() {
		hub.Publish([]byte{0xFD})
	})
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id, _ := hub.Subscribe()
			hub.Unsubscribe(id)
		}()
		go func() {
			defer wg.Done()
			hub.Publish([]byte{0xFD, 0x00})
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, hub.SubscriberCount())
}
