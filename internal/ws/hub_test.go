package ws

import (
	"encoding/json"
	"testing"

	"card_arena/internal/domain"
)

func TestHub_QueueUpdateFanout(t *testing.T) {
	hub := NewHub()

	c1 := &Client{PlayerID: 1, hub: hub, send: make(chan []byte, 1)}
	c2 := &Client{PlayerID: 2, hub: hub, send: make(chan []byte, 1)}
	hub.register(c1)
	hub.register(c2)

	hub.QueueUpdate(1, "ranked", domain.QueueMatched, "m-42")

	select {
	case raw := <-c1.send:
		var msg QueueUpdateMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Status != domain.QueueMatched || msg.MatchID != "m-42" || msg.Mode != "ranked" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	default:
		t.Fatal("player 1 did not receive the update")
	}

	select {
	case <-c2.send:
		t.Fatal("player 2 must not receive player 1's update")
	default:
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	c := &Client{PlayerID: 7, hub: hub, send: make(chan []byte, 1)}
	hub.register(c)
	hub.unregister(c)

	hub.QueueUpdate(7, "casual", domain.QueueCancelled, "")

	select {
	case <-c.send:
		t.Fatal("unregistered client received an update")
	default:
	}
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub()
	c := &Client{PlayerID: 9, hub: hub, send: make(chan []byte)} // unbuffered, no reader
	hub.register(c)

	done := make(chan struct{})
	go func() {
		hub.QueueUpdate(9, "ranked", domain.QueueQueued, "")
		close(done)
	}()

	select {
	case <-done:
	case <-c.send:
		t.Fatal("unexpected delivery to blocked client")
	}
}
