package utils

import (
	"sync"
)

// MailKey addresses one mailbox slot. Tag separates concurrent exchanges of
// different quantities between the same pair of endpoints.
type MailKey struct {
	Tag      string
	From, To string
}

// MailBox is a rendezvous point for messages keyed by (tag, sender, receiver).
// Posting never blocks while a slot holds fewer than Depth messages, receiving
// blocks until a message for the slot arrives.
type MailBox[T any] struct {
	Depth int
	mu    sync.Mutex
	slots map[MailKey]chan T
}

func NewMailBox[T any](depth int) *MailBox[T] {
	if depth < 1 {
		depth = 1
	}
	return &MailBox[T]{
		Depth: depth,
		slots: make(map[MailKey]chan T),
	}
}

func (mb *MailBox[T]) slot(key MailKey) chan T {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	ch, ok := mb.slots[key]
	if !ok {
		ch = make(chan T, mb.Depth)
		mb.slots[key] = ch
	}
	return ch
}

func (mb *MailBox[T]) PostMessage(key MailKey, msg T) {
	mb.slot(key) <- msg
}

func (mb *MailBox[T]) ReceiveMessage(key MailKey) T {
	return <-mb.slot(key)
}

// TryReceiveMessage returns immediately, ok is false when the slot is empty
func (mb *MailBox[T]) TryReceiveMessage(key MailKey) (msg T, ok bool) {
	select {
	case msg = <-mb.slot(key):
		ok = true
	default:
	}
	return
}

// Pending counts the undelivered messages across all slots
func (mb *MailBox[T]) Pending() (n int) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for _, ch := range mb.slots {
		n += len(ch)
	}
	return
}
