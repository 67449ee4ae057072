package realtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = h.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return h
}

func recv(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case b, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return string(b)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return ""
	}
}

func TestPublishIsScopedToOrder(t *testing.T) {
	h := startHub(t)
	orderA, orderB := uuid.New(), uuid.New()

	a1 := NewClient(orderA, nil)
	a2 := NewClient(orderA, nil)
	b1 := NewClient(orderB, nil)
	h.Subscribe(a1)
	h.Subscribe(a2)
	h.Subscribe(b1)
	require.Eventually(t, func() bool { return h.SubscriberCount(orderA) == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, h.Publish(context.Background(), orderA, map[string]string{"type": "message.created"}))

	assert.JSONEq(t, `{"type":"message.created"}`, recv(t, a1))
	assert.JSONEq(t, `{"type":"message.created"}`, recv(t, a2))
	select {
	case <-b1.Send:
		t.Fatal("subscriber of another order received the frame")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishPreservesOrder(t *testing.T) {
	h := startHub(t)
	order := uuid.New()
	c := NewClient(order, nil)
	h.Subscribe(c)
	require.Eventually(t, func() bool { return h.SubscriberCount(order) == 1 }, time.Second, 5*time.Millisecond)

	for _, s := range []string{"1", "2", "3"} {
		require.NoError(t, h.PublishRaw(context.Background(), order, []byte(s)))
	}
	assert.Equal(t, "1", recv(t, c))
	assert.Equal(t, "2", recv(t, c))
	assert.Equal(t, "3", recv(t, c))
}

func TestUnsubscribeClosesSend(t *testing.T) {
	h := startHub(t)
	order := uuid.New()
	c := NewClient(order, nil)
	h.Subscribe(c)
	h.Unsubscribe(c)

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
	assert.Zero(t, h.SubscriberCount(order))

	// second unsubscribe is a no-op
	h.Unsubscribe(c)
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	h := startHub(t)
	order := uuid.New()
	slow := NewClient(order, nil)
	fast := NewClient(order, nil)
	h.Subscribe(slow)
	h.Subscribe(fast)
	require.Eventually(t, func() bool { return h.SubscriberCount(order) == 2 }, time.Second, 5*time.Millisecond)

	var got atomic.Int64
	go func() {
		for range fast.Send {
			got.Add(1)
		}
	}()

	// fill both buffers, let the fast one drain, then overflow the slow one
	for i := 0; i < sendBuffer; i++ {
		require.NoError(t, h.PublishRaw(context.Background(), order, []byte("x")))
	}
	require.Eventually(t, func() bool { return got.Load() == sendBuffer }, 2*time.Second, 5*time.Millisecond)

	for i := 0; i < 10; i++ {
		require.NoError(t, h.PublishRaw(context.Background(), order, []byte("x")))
	}
	require.Eventually(t, func() bool { return got.Load() == sendBuffer+10 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return h.SubscriberCount(order) == 1 }, time.Second, 5*time.Millisecond)

	drained := 0
	for range slow.Send {
		drained++
	}
	assert.Equal(t, sendBuffer, drained)
}

func TestClosedHub(t *testing.T) {
	h := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	order := uuid.New()
	c := NewClient(order, nil)

	stopped := make(chan struct{})
	go func() {
		_ = h.Run(ctx)
		close(stopped)
	}()
	h.Subscribe(c)
	cancel()
	<-stopped

	_, ok := <-c.Send
	assert.False(t, ok)
	for i := 0; i < 100; i++ {
		require.ErrorIs(t, h.PublishRaw(context.Background(), order, []byte("x")), ErrHubClosed, "publish %d", i)
	}
	assert.ErrorIs(t, h.Publish(context.Background(), order, map[string]string{"type": "late"}), ErrHubClosed)

	late := NewClient(order, nil)
	h.Subscribe(late)
	_, ok = <-late.Send
	assert.False(t, ok)
}

func TestChannelNames(t *testing.T) {
	id := uuid.New()
	ch := Channel(id)
	assert.Equal(t, "orders:"+id.String()+":messages", ch)

	got, err := ParseChannel(ch)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseChannel("orders:not-a-uuid:messages")
	assert.Error(t, err)
	_, err = ParseChannel("users:" + id.String())
	assert.Error(t, err)
}
