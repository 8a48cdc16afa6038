package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockClient(h *Hub, id string) *Client {
	return &Client{ID: id, Hub: h, Send: make(chan []byte, 4)}
}

func runHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub()
	var disconnected []string
	h.OnDisconnect = func(c *Client) { disconnected = append(disconnected, c.ID) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := mockClient(h, "c1")
	h.Register <- c
	h.Unregister <- c
	// A second unregister for the same client is ignored.
	h.Unregister <- c
	cancel()
	<-done

	assert.Equal(t, 0, h.ClientCount())
	assert.Equal(t, []string{"c1"}, disconnected)
	_, open := <-c.Send
	assert.False(t, open, "send channel closed on unregister")
}

func TestHub_DispatchesIncoming(t *testing.T) {
	h := runHub(t)
	got := make(chan string, 1)
	h.OnMessage = func(cm *ClientMessage) { got <- string(cm.Data) }

	c := mockClient(h, "c1")
	h.Register <- c
	h.Incoming <- &ClientMessage{Client: c, Data: []byte(`{"type":"pause_session"}`)}

	select {
	case data := <-got:
		assert.Equal(t, `{"type":"pause_session"}`, data)
	case <-time.After(time.Second):
		t.Fatal("message not dispatched")
	}
	assert.Equal(t, 1, h.ClientCount())
}

func TestHub_RunClosesClientsOnShutdown(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := mockClient(h, "c1")
	h.Register <- c
	cancel()
	<-done

	_, open := <-c.Send
	assert.False(t, open)
}

func TestClient_SendMessageDropsWhenFull(t *testing.T) {
	c := mockClient(nil, "c1")
	for i := 0; i < cap(c.Send)+2; i++ {
		c.SendMessage(NewErrorMessage("boom"))
	}
	assert.Len(t, c.Send, cap(c.Send))

	var msg Message
	require.NoError(t, json.Unmarshal(<-c.Send, &msg))
	assert.Equal(t, TypeError, msg.Type)

	var payload ErrorMessage
	require.NoError(t, msg.Decode(&payload))
	assert.Equal(t, "boom", payload.Message)
}

func TestMessage_DecodeEmpty(t *testing.T) {
	v := struct{ A int }{A: 7}
	require.NoError(t, Message{Type: TypePauseSession}.Decode(&v))
	assert.Equal(t, 7, v.A)
}
