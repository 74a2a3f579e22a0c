package hub

import (
	"context"
	"testing"
	"time"

	"github.com/teslashibe/go-turret/internal/log"
)

// startHub runs a quiet hub until the test ends.
func startHub(t *testing.T) *Hub {
	t.Helper()
	h := New("test")
	h.SetLogger(log.Discard())

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

// fakeClient registers a client without a connection.
func fakeClient(h *Hub, buffer int) *Client {
	c := &Client{hub: h, send: make(chan Message, buffer)}
	h.register <- c
	return c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 1s")
		}
		time.Sleep(time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) (Message, bool) {
	t.Helper()
	select {
	case m, ok := <-c.send:
		return m, ok
	case <-time.After(time.Second):
		t.Fatal("no message within 1s")
		return Message{}, false
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	h := startHub(t)
	a := fakeClient(h, 4)
	b := fakeClient(h, 4)
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	if err := h.BroadcastJSON(map[string]int{"tick": 1}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}

	for _, c := range []*Client{a, b} {
		m, ok := receive(t, c)
		if !ok {
			t.Fatal("client channel closed")
		}
		if string(m.Data) != `{"tick":1}` {
			t.Errorf("Data = %s", m.Data)
		}
	}
}

func TestHub_UnregisterClosesClient(t *testing.T) {
	h := startHub(t)
	c := fakeClient(h, 1)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.unregister <- c
	if _, ok := receive(t, c); ok {
		t.Error("expected closed channel after unregister")
	}
	if c.Send(NewJSONMessage([]byte("{}"))) {
		t.Error("Send to an unregistered client should fail")
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := startHub(t)
	slow := fakeClient(h, 1)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast(NewJSONMessage([]byte("1")))
	h.Broadcast(NewJSONMessage([]byte("2")))
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	// The queued message is still delivered before the close
	if m, ok := receive(t, slow); !ok || string(m.Data) != "1" {
		t.Errorf("first message = %q, ok=%v", m.Data, ok)
	}
	if _, ok := receive(t, slow); ok {
		t.Error("expected closed channel for slow client")
	}
}

func TestHub_SendTargetsOneClient(t *testing.T) {
	h := startHub(t)
	a := fakeClient(h, 2)
	b := fakeClient(h, 2)
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	if !a.Send(NewJSONMessage([]byte("pong"))) {
		t.Fatal("Send failed")
	}
	if m, _ := receive(t, a); string(m.Data) != "pong" {
		t.Errorf("Data = %s", m.Data)
	}
	select {
	case m := <-b.send:
		t.Errorf("other client received %s", m.Data)
	default:
	}
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	h := New("cancel")
	h.SetLogger(log.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	c := fakeClient(h, 1)
	waitFor(t, h.IsRunning)

	cancel()
	<-done
	if h.IsRunning() {
		t.Error("hub still running after cancel")
	}
	if _, ok := <-c.send; ok {
		t.Error("client not closed on shutdown")
	}
}

func TestHub_RegisterAndUnregisterAfterShutdown(t *testing.T) {
	h := New("stopped")
	h.SetLogger(log.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	c := fakeClient(h, 1)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	<-done

	returned := make(chan bool)
	go func() {
		h.remove(c)
		late := &Client{hub: h, send: make(chan Message, 1)}
		returned <- h.add(late)
	}()
	select {
	case added := <-returned:
		if added {
			t.Error("register after shutdown should be refused")
		}
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after hub shutdown")
	}
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount = %d after shutdown", h.ClientCount())
	}
}
