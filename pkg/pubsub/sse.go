package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/diagram-canvas/pkg/logging"
)

// ErrClosed is returned by Publish and Subscribe after Close.
var ErrClosed = errors.New("publisher is closed")

// subscriberQueue is the number of events a subscriber may fall behind.
const subscriberQueue = 64

// TopicMode decides what a topic keeps for subscribers that are not keeping up
// or not yet connected.
type TopicMode int

const (
	// Stream topics deliver only events published after Subscribe. When a
	// subscriber's queue is full the new event is dropped for it.
	Stream TopicMode = iota
	// Snapshot topics carry whole states. The latest event is replayed to
	// each new subscriber, and a full queue loses its oldest event instead
	// of the newest.
	Snapshot
)

func (m TopicMode) String() string {
	switch m {
	case Stream:
		return "stream"
	case Snapshot:
		return "snapshot"
	}
	return fmt.Sprintf("TopicMode(%d)", int(m))
}

type topicState struct {
	mode    TopicMode
	version int
	latest  *Event
	subs    map[*sseSubscription]struct{}
}

// SSEPublisher implements Publisher for Server-Sent Event handlers.
type SSEPublisher struct {
	mu     sync.RWMutex
	topics map[string]*topicState
	closed bool
}

// NewSSEPublisher creates a publisher whose topics default to Stream.
func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{topics: make(map[string]*topicState)}
}

// topic returns the state of a topic, creating it. Callers hold p.mu.
func (p *SSEPublisher) topic(name string) *topicState {
	t, ok := p.topics[name]
	if !ok {
		t = &topicState{subs: make(map[*sseSubscription]struct{})}
		p.topics[name] = t
	}
	return t
}

// ConfigureTopic sets the mode of a topic. Switching a topic to Stream
// forgets its latest event.
func (p *SSEPublisher) ConfigureTopic(topic string, mode TopicMode) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.topic(topic)
	t.mode = mode
	if mode == Stream {
		t.latest = nil
	}
}

// Subscribe creates a subscription that closes when ctx is done.
func (p *SSEPublisher) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}

	sub := &sseSubscription{
		topic:     topic,
		events:    make(chan Event, subscriberQueue),
		publisher: p,
	}

	// Replaying under the lock keeps the snapshot ahead of anything
	// published after it.
	t := p.topic(topic)
	if t.mode == Snapshot && t.latest != nil {
		sub.events <- *t.latest
		logging.Debug("replayed snapshot to new subscriber", "topic", topic, "version", t.latest.Version)
	}
	t.subs[sub] = struct{}{}
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	return sub, nil
}

// Publish marshals data and delivers it to every subscriber of topic without
// blocking.
func (p *SSEPublisher) Publish(topic string, eventType string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	t := p.topic(topic)
	t.version++
	event := Event{
		Topic:   topic,
		Type:    eventType,
		Data:    jsonData,
		Version: t.version,
	}
	if t.mode == Snapshot {
		t.latest = &event
	}

	for sub := range t.subs {
		sub.deliver(event, t.mode)
	}
	return nil
}

// Close shuts down the publisher and closes every subscription channel.
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, t := range p.topics {
		for sub := range t.subs {
			close(sub.events)
		}
		t.subs = make(map[*sseSubscription]struct{})
	}
	return nil
}

// Subscribers returns the number of open subscriptions to a topic.
func (p *SSEPublisher) Subscribers(topic string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if t, ok := p.topics[topic]; ok {
		return len(t.subs)
	}
	return 0
}

// Latest returns the event a new subscriber to a Snapshot topic would get.
func (p *SSEPublisher) Latest(topic string) (Event, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.topics[topic]
	if !ok || t.latest == nil {
		return Event{}, false
	}
	return *t.latest, true
}

func (p *SSEPublisher) unsubscribe(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.topics[sub.topic]; ok {
		delete(t.subs, sub)
	}
}

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher

	mu     sync.Mutex
	closed bool
}

// deliver queues event without blocking. Called with the publisher lock held,
// so the subscriber's reader is the only other party on the channel.
func (s *sseSubscription) deliver(event Event, mode TopicMode) {
	select {
	case s.events <- event:
		return
	default:
	}

	if mode == Snapshot {
		select {
		case dropped := <-s.events:
			logging.Debug("subscriber behind, dropping stale snapshot", "topic", s.topic, "version", dropped.Version)
		default:
		}
		select {
		case s.events <- event:
			return
		default:
		}
	}
	logging.Warn("subscription channel full, dropping event", "topic", s.topic, "version", event.Version)
}

func (s *sseSubscription) Topic() string {
	return s.topic
}

func (s *sseSubscription) Events() <-chan Event {
	return s.events
}

func (s *sseSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.publisher.unsubscribe(s)
	return nil
}

// WriteSSE writes an event to an SSE response writer
// Format: "id: {version}\ndata: {json}\n\n"
func WriteSSE(w io.Writer, event Event) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = fmt.Fprintf(w, "id: %d\ndata: %s\n\n", event.Version, jsonData)
	return err
}
