package mailservice

import (
	"bytes"
	"errors"
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/agencysite/internal/common"
)

type MockTemplate struct {
	mock.Mock
}

func (m *MockTemplate) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	args := m.Called(name, data)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*bytes.Buffer), args.Get(1).(*bytes.Buffer), args.Get(2).(*bytes.Buffer), args.Error(3)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

type sentMail struct {
	Recipient string
	Template  string
	Data      any
}

// MockMailer records sent mail. send fails until it has been called more than failures times.
type MockMailer struct {
	mu       sync.Mutex
	failures int
	attempts int
	sent     []sentMail
}

var errMockSend = errors.New("smtp unavailable")

func (m *MockMailer) send(recipient string, data any, templateFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts++
	if m.attempts <= m.failures {
		return errMockSend
	}

	m.sent = append(m.sent, sentMail{Recipient: recipient, Template: templateFile, Data: data})
	return nil
}

func (m *MockMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]sentMail(nil), m.sent...)
}

func (m *MockMailer) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.attempts
}

// MockMessageConsumer delivers Body once on every consumed queue, then closes the channel.
type MockMessageConsumer struct {
	mock.Mock
	Body []byte
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(key, exchange, queue)
	if err := args.Error(0); err != nil {
		return nil, err
	}

	msgsChan := make(chan amqp.Delivery)

	go func() {
		defer close(msgsChan)
		msgsChan <- amqp.Delivery{Body: m.Body}
	}()

	return msgsChan, nil
}
