// file: internal/realtime/events_test.go
// version: 2.0.0
// guid: 2c3d4e5f-6a7b-8c9d-0e1f-2a3b4c5d6e7f

package realtime

import (
	"testing"
)

func TestBroadcastReachesUnfilteredClients(t *testing.T) {
	hub := NewEventHub()
	client := NewClient("a")
	hub.RegisterClient(client)

	hub.SendCatalogChanged("series", "create", 1)

	select {
	case event := <-client.Channel:
		if event.Type != EventCatalogChanged || event.Data["action"] != "create" {
			t.Fatalf("unexpected event: %+v", event)
		}
	default:
		t.Fatal("expected event delivered")
	}
}

func TestBroadcastHonorsEntityFilter(t *testing.T) {
	hub := NewEventHub()
	filtered := NewClient("filtered")
	filtered.Subscribe("episode")
	hub.RegisterClient(filtered)

	hub.SendCatalogChanged("series", "update", 2)
	select {
	case event := <-filtered.Channel:
		t.Fatalf("client should not receive series events, got %+v", event)
	default:
	}

	hub.SendCatalogChanged("episode", "update", 3)
	select {
	case <-filtered.Channel:
	default:
		t.Fatal("expected episode event delivered")
	}

	// Events without an entity reach everyone.
	hub.SendRawFolderChanged("/media/raw")
	select {
	case <-filtered.Channel:
	default:
		t.Fatal("expected raw folder event delivered")
	}
}

func TestUnregisterClosesChannel(t *testing.T) {
	hub := NewEventHub()
	client := NewClient("c")
	hub.RegisterClient(client)
	if hub.GetClientCount() != 1 {
		t.Fatalf("client count = %d", hub.GetClientCount())
	}
	hub.UnregisterClient("c")
	if hub.GetClientCount() != 0 {
		t.Fatalf("client count after unregister = %d", hub.GetClientCount())
	}
	if _, ok := <-client.Channel; ok {
		t.Fatal("channel should be closed")
	}
}
