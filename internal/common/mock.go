package common

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockProducer records published messages. Expectations are optional: Publish
// only consults the mock when On("Publish", ...) was registered.
type MockProducer struct {
	mock.Mock

	mu       sync.Mutex
	messages []PublishedMessage
}

type PublishedMessage struct {
	Key      BindingKey
	Exchange Exchange
	Body     []byte
}

func (p *MockProducer) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	p.mu.Lock()
	p.messages = append(p.messages, PublishedMessage{Key: key, Exchange: exchange, Body: msg})
	p.mu.Unlock()

	if len(p.ExpectedCalls) == 0 {
		return nil
	}

	args := p.Called(ctx, msg, key, exchange)
	return args.Error(0)
}

func (p *MockProducer) Messages() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]PublishedMessage(nil), p.messages...)
}
