package registry

import "sync"

// Mailbox is the unbounded message queue feeding the registry actor.
// Send never blocks the producer; the actor is woken through a signal
// channel instead of polling.
type Mailbox struct {
	mu    sync.Mutex
	queue []Message
	wake  chan struct{}
}

func NewMailbox() *Mailbox {
	return &Mailbox{wake: make(chan struct{}, 1)}
}

// Send enqueues a message and wakes the consumer.
func (m *Mailbox) Send(msg Message) {
	m.mu.Lock()
	m.queue = append(m.queue, msg)
	m.mu.Unlock()
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Mailbox) tryRecv() (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return nil, false
	}
	msg := m.queue[0]
	m.queue = m.queue[1:]
	return msg, true
}

// Len reports the number of queued messages.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
