package kernel

import (
	"testing"
	"time"
)

type recordingActor struct {
	id     int
	waking []time.Time
	msgs   []Message
	stops  int
}

func (r *recordingActor) ID() int { return r.id }

func (r *recordingActor) Wakeup(now time.Time) {
	r.waking = append(r.waking, now)
}

func (r *recordingActor) ReceiveMessage(now time.Time, msg Message) {
	r.msgs = append(r.msgs, msg)
}

func (r *recordingActor) KernelStopping(now time.Time) { r.stops++ }

func TestWakeupsDeliveredInTimeOrder(t *testing.T) {
	start := time.Unix(0, 0)
	k := New(start)
	actor := &recordingActor{id: 1}
	if err := k.Register(actor); err != nil {
		t.Fatalf("register: %v", err)
	}

	k.SetWakeup(1, start.Add(30*time.Second))
	k.SetWakeup(1, start.Add(10*time.Second))
	k.SetWakeup(1, start.Add(20*time.Second))
	k.Run(start.Add(time.Minute))

	if len(actor.waking) != 3 {
		t.Fatalf("expected 3 wakeups, got %d", len(actor.waking))
	}
	for i := 1; i < len(actor.waking); i++ {
		if actor.waking[i].Before(actor.waking[i-1]) {
			t.Fatalf("wakeups out of order: %v", actor.waking)
		}
	}
}

func TestTieBreakBySchedulingOrder(t *testing.T) {
	start := time.Unix(0, 0)
	k := New(start)
	actor := &recordingActor{id: 1}
	if err := k.Register(actor); err != nil {
		t.Fatalf("register: %v", err)
	}

	at := start.Add(time.Second)
	k.Send(1, time.Second, Message{Type: "first"})
	k.Send(1, time.Second, Message{Type: "second"})
	k.SetWakeup(1, at)
	k.Run(start.Add(time.Minute))

	if len(actor.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(actor.msgs))
	}
	if actor.msgs[0].Type != "first" || actor.msgs[1].Type != "second" {
		t.Fatalf("same-instant events reordered: %v", actor.msgs)
	}
}

func TestRunStopsAtHorizonAndFiresFinishers(t *testing.T) {
	start := time.Unix(0, 0)
	k := New(start)
	actor := &recordingActor{id: 1}
	if err := k.Register(actor); err != nil {
		t.Fatalf("register: %v", err)
	}

	k.SetWakeup(1, start.Add(time.Second))
	k.SetWakeup(1, start.Add(time.Hour))
	k.Run(start.Add(time.Minute))

	if len(actor.waking) != 1 {
		t.Fatalf("expected 1 wakeup before horizon, got %d", len(actor.waking))
	}
	if actor.stops != 1 {
		t.Fatalf("expected 1 stop callback, got %d", actor.stops)
	}
	if got := k.Now(); !got.Equal(start.Add(time.Minute)) {
		t.Fatalf("clock did not advance to horizon: %v", got)
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	k := New(time.Unix(0, 0))
	if err := k.Register(&recordingActor{id: 1}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := k.Register(&recordingActor{id: 1}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
