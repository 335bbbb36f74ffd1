package pubsub

import (
	"context"
	"encoding/json"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "frame", "selection")
	Type    string          `json:"type"`    // Event type (e.g., "rendered", "resized", "theme")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// Topics published by the diagram server.
const (
	// TopicFrame carries the recorded draw commands of every render pass.
	TopicFrame = "frame"
	// TopicSelection carries the interaction state after pointer events.
	TopicSelection = "selection"
	// TopicViewport carries pan/zoom changes.
	TopicViewport = "viewport"
	// TopicScene carries node and edge changes as diffs.
	TopicScene = "scene"
)

// SelectionData describes the interaction state.
type SelectionData struct {
	State  string `json:"state"` // idle, node_selected, edge_selected, dragging
	NodeID string `json:"nodeId,omitempty"`
	EdgeID string `json:"edgeId,omitempty"`
}
