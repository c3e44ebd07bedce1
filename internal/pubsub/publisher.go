package pubsub

import (
	"context"
	"fmt"
	"sync"

	"cutroom/internal/config"

	"cloud.google.com/go/pubsub"
)

// OrderingAttribute names the message attribute used as the ordering key, so
// the events of one project are delivered in publish order.
const OrderingAttribute = "project_id"

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte, attrs map[string]string) (string, error)
}

// PubSubPublisher publishes to Google Pub/Sub, reusing one Topic handle (and its
// batching goroutines) per topic.
type PubSubPublisher struct {
	client *pubsub.Client

	mu     sync.Mutex
	topics map[string]*pubsub.Topic
}

// NewPublisher creates a new PubSubPublisher using the GCP project from config.
// The client honours PUBSUB_EMULATOR_HOST.
func NewPublisher(ctx context.Context, cfg *config.Config) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client, topics: make(map[string]*pubsub.Topic)}, nil
}

func (p *PubSubPublisher) topic(id string) *pubsub.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.topics[id]; ok {
		return t
	}
	t := p.client.Topic(id)
	t.EnableMessageOrdering = true
	p.topics[id] = t
	return t
}

// Publish sends the payload with attrs and waits for the server-assigned ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte, attrs map[string]string) (string, error) {
	t := p.topic(topic)
	key := attrs[OrderingAttribute]
	result := t.Publish(ctx, &pubsub.Message{Data: payload, Attributes: attrs, OrderingKey: key})
	id, err := result.Get(ctx)
	if err != nil {
		// a failed ordered publish pauses the key until resumed
		if key != "" {
			t.ResumePublish(key)
		}
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

// Close flushes pending messages and closes the client.
func (p *PubSubPublisher) Close() error {
	p.mu.Lock()
	for _, t := range p.topics {
		t.Stop()
	}
	p.topics = map[string]*pubsub.Topic{}
	p.mu.Unlock()
	return p.client.Close()
}
