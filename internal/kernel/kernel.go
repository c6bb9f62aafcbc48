// Package kernel is a single-threaded discrete-event scheduler. Actors are
// advanced cooperatively: the kernel pops the earliest event, advances the
// simulated clock and dispatches either a wakeup or a message. Events at the
// same instant are delivered in scheduling order, so a run is fully
// deterministic for a fixed set of seeds.
package kernel

import (
	"container/heap"
	"fmt"
	"sort"
	"time"
)

// Message is a point-to-point payload delivered to an actor. Type carries
// the tag the receiver switches on; Body holds the typed payload.
type Message struct {
	Type string
	From int
	Body any
}

// Actor is the unit the kernel schedules. Both entry points run on the
// kernel goroutine; actors never block.
type Actor interface {
	ID() int
	Wakeup(now time.Time)
	ReceiveMessage(now time.Time, msg Message)
}

// Finisher is implemented by actors that want a final callback when the run
// ends, e.g. for a closing valuation read. The callback must not schedule
// further events.
type Finisher interface {
	KernelStopping(now time.Time)
}

type eventKind int

const (
	evWakeup eventKind = iota
	evMessage
)

type event struct {
	at     time.Time
	seq    uint64
	kind   eventKind
	target int
	msg    Message
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if !q[i].at.Equal(q[j].at) {
		return q[i].at.Before(q[j].at)
	}
	return q[i].seq < q[j].seq
}
func (q eventQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x any)        { *q = append(*q, x.(*event)) }
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

type Kernel struct {
	actors map[int]Actor
	queue  eventQueue
	seq    uint64
	now    time.Time
}

func New(start time.Time) *Kernel {
	return &Kernel{
		actors: make(map[int]Actor),
		now:    start,
	}
}

func (k *Kernel) Register(a Actor) error {
	if _, ok := k.actors[a.ID()]; ok {
		return fmt.Errorf("actor id %d already registered", a.ID())
	}
	k.actors[a.ID()] = a
	return nil
}

func (k *Kernel) Now() time.Time { return k.now }

// SetWakeup schedules a wakeup for the given actor. Wakeups in the past are
// clamped to the current instant rather than rejected.
func (k *Kernel) SetWakeup(actorID int, at time.Time) {
	if at.Before(k.now) {
		at = k.now
	}
	k.push(&event{at: at, kind: evWakeup, target: actorID})
}

// Send delivers msg to the target actor after delay. A zero delay delivers
// the message after the currently executing event, at the same instant.
func (k *Kernel) Send(to int, delay time.Duration, msg Message) {
	k.push(&event{at: k.now.Add(delay), kind: evMessage, target: to, msg: msg})
}

func (k *Kernel) push(ev *event) {
	k.seq++
	ev.seq = k.seq
	heap.Push(&k.queue, ev)
}

// Run drains the event queue until it empties or the clock passes until.
// Finisher hooks fire afterwards in ascending actor-id order so shutdown
// output is stable across runs.
func (k *Kernel) Run(until time.Time) {
	for k.queue.Len() > 0 {
		ev := heap.Pop(&k.queue).(*event)
		if ev.at.After(until) {
			break
		}
		k.now = ev.at
		actor, ok := k.actors[ev.target]
		if !ok {
			continue
		}
		switch ev.kind {
		case evWakeup:
			actor.Wakeup(k.now)
		case evMessage:
			actor.ReceiveMessage(k.now, ev.msg)
		}
	}
	if k.now.Before(until) {
		k.now = until
	}

	ids := make([]int, 0, len(k.actors))
	for id := range k.actors {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if f, ok := k.actors[id].(Finisher); ok {
			f.KernelStopping(k.now)
		}
	}
}
