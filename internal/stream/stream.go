// Package stream fan-outs notification events to connected SSE clients so a
// cadet's inbox badge updates without polling.
package stream

import (
	"context"
	"sync"
	"time"
)

// NotificationEvent is pushed to open event streams when new inbox rows are
// created. RegimentalNumber addresses one cadet, AnoID addresses a whole
// unit; with both empty the event reaches every subscriber.
type NotificationEvent struct {
	RegimentalNumber string    `json:"regimental_number,omitempty"`
	AnoID            string    `json:"ano_id,omitempty"`
	Type             string    `json:"type"`
	Message          string    `json:"message"`
	Link             string    `json:"link,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

type subscriber struct {
	ch    chan NotificationEvent
	key   string
	anoID string
}

// Stream fan-outs notification events to all active subscribers.
type Stream struct {
	mu   sync.RWMutex
	subs map[int]subscriber
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]subscriber)}
}

// Subscribe registers a subscriber for one cadet and returns a channel which
// will receive events addressed to them, their unit, or everyone. The channel
// is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context, regimentalNumber, anoID string) <-chan NotificationEvent {
	ch := make(chan NotificationEvent, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = subscriber{ch: ch, key: regimentalNumber, anoID: anoID}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish delivers the event to the subscribers it addresses.
func (s *Stream) Publish(evt NotificationEvent) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subs {
		if !addresses(evt, sub) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

func addresses(evt NotificationEvent, sub subscriber) bool {
	if evt.RegimentalNumber != "" {
		return sub.key == evt.RegimentalNumber
	}
	if evt.AnoID != "" {
		return sub.anoID == evt.AnoID
	}
	return true
}
