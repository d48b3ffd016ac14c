package mq

import (
	"context"
	"errors"
	"sync"
)

// MemoryBackend is an in-process backend used when no broker is
// configured, and in tests. Messages are fanned out to every subscriber
// of the topic; delivery is best effort with a bounded buffer per
// subscriber.
type MemoryBackend struct {
	mu          sync.Mutex
	subscribers map[string][]chan Message
	closed      bool
}

const memoryBufferSize = 64

// NewMemoryBackend constructs an in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{subscribers: make(map[string][]chan Message)}
}

// Publish delivers the message to current subscribers of the topic.
// Subscribers with full buffers miss the message rather than blocking
// the publisher.
func (b *MemoryBackend) Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return "", errors.New("memory backend closed")
	}

	messageID := newMessageID()
	msg := Message{ID: messageID, Data: data, Attributes: attrs}
	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
	return messageID, nil
}

// Subscribe consumes messages from the named topic until ctx is done.
// Handler errors drop the message; the in-process backend has no redelivery.
func (b *MemoryBackend) Subscribe(ctx context.Context, topic string, handler Handler) error {
	ch := make(chan Message, memoryBufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errors.New("memory backend closed")
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	defer b.removeSubscriber(topic, ch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			_ = handler(ctx, msg)
		}
	}
}

// Close drops all subscribers.
func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, channels := range b.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	b.subscribers = make(map[string][]chan Message)
	return nil
}

func (b *MemoryBackend) removeSubscriber(topic string, ch chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channels := b.subscribers[topic]
	for i, candidate := range channels {
		if candidate == ch {
			b.subscribers[topic] = append(channels[:i], channels[i+1:]...)
			return
		}
	}
}
