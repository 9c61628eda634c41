package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type fakePublisher struct {
	connected bool
	topics    []string
	payloads  [][]byte
	err       error
}

func (f *fakePublisher) Publish(topic string, payload []byte, _ byte, _ bool) error {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return f.err
}

func (f *fakePublisher) IsConnected() bool { return f.connected }

type fakeBroadcaster struct {
	payloads [][]byte
}

func (f *fakeBroadcaster) Broadcast(payload []byte) {
	f.payloads = append(f.payloads, payload)
}

func TestEmit_FansOut(t *testing.T) {
	pub := &fakePublisher{connected: true}
	bc := &fakeBroadcaster{}
	rec := NewRecorder(nil, pub, bc)

	rec.Emit(Record{
		OwnerID: "owner-1",
		Kind:    KindTimerFired,
		Device:  "light, porch",
		Action:  "on",
		Message: "timer fired",
		At:      time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	})

	if len(pub.topics) != 2 {
		t.Fatalf("published topics = %v, want the kind topic and the per-owner topic", pub.topics)
	}
	if pub.topics[0] != "hearth/event/timer_fired" {
		t.Errorf("kind topic = %q, want hearth/event/timer_fired", pub.topics[0])
	}
	if pub.topics[1] != "hearth/event/owner/owner-1/timer_fired" {
		t.Errorf("owner topic = %q, want hearth/event/owner/owner-1/timer_fired", pub.topics[1])
	}
	if len(bc.payloads) != 1 {
		t.Fatalf("broadcast payloads = %d, want 1", len(bc.payloads))
	}

	var got Record
	if err := json.Unmarshal(bc.payloads[0], &got); err != nil {
		t.Fatalf("decoding broadcast payload: %v", err)
	}
	if got.ID == "" {
		t.Error("emitted record has no generated ID")
	}
	if got.Kind != KindTimerFired || got.OwnerID != "owner-1" {
		t.Errorf("broadcast record = %+v", got)
	}
}

func TestEmit_SkipsDisconnectedBus(t *testing.T) {
	pub := &fakePublisher{connected: false}
	rec := NewRecorder(nil, pub, nil)

	rec.Emit(Record{OwnerID: "owner-1", Kind: KindSceneExecuted, Message: "movie"})

	if len(pub.topics) != 0 {
		t.Errorf("published to a disconnected bus: %v", pub.topics)
	}
}

func TestEmit_PublishErrorDoesNotPropagate(t *testing.T) {
	pub := &fakePublisher{connected: true, err: errors.New("broker gone")}
	rec := NewRecorder(nil, pub, nil)

	// Must not panic or surface the error.
	rec.Emit(Record{OwnerID: "owner-1", Kind: KindAlertTriggered, Message: "over"})
}

func TestEmit_NilSinks(t *testing.T) {
	rec := NewRecorder(nil, nil, nil)
	rec.Emit(Record{OwnerID: "owner-1", Kind: KindDeviceToggled, Message: "on"})
}
