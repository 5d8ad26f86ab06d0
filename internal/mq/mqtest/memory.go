// Package mqtest provides an in-process broker for tests.
package mqtest

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/quill-blog/server/internal/mq"
)

// Memory is an mq.Backend that records published messages and replays them
// to subscribers.
type Memory struct {
	mu       sync.Mutex
	messages map[string][]mq.Message
	closed   bool
}

func NewMemory() *Memory {
	return &Memory{messages: make(map[string][]mq.Message)}
}

func (m *Memory) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", errors.New("broker closed")
	}
	msg := mq.Message{ID: uuid.NewString(), Data: data, Attributes: attrs}
	m.messages[channel] = append(m.messages[channel], msg)
	return msg.ID, nil
}

// Subscribe delivers every message published so far, then returns.
// Messages whose handler fails are kept for redelivery.
func (m *Memory) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	m.mu.Lock()
	pending := m.messages[channel]
	m.messages[channel] = nil
	m.mu.Unlock()

	var failed []mq.Message
	for _, msg := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := handler(ctx, msg); err != nil {
			failed = append(failed, msg)
		}
	}

	if len(failed) > 0 {
		m.mu.Lock()
		m.messages[channel] = append(failed, m.messages[channel]...)
		m.mu.Unlock()
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Messages returns a copy of the undelivered messages on channel.
func (m *Memory) Messages(channel string) []mq.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mq.Message(nil), m.messages[channel]...)
}
