package common

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

const (
	UserExchange     Exchange   = "user_exchange"
	UserCreatedQueue Queue      = "user_created_queue"
	UserCreatedKey   BindingKey = "user.created"

	ContentExchange      Exchange   = "content_exchange"
	ReviewCreatedQueue   Queue      = "review_created_queue"
	ReviewCreatedKey     BindingKey = "review.created"
	InquiryReceivedQueue Queue      = "inquiry_received_queue"
	InquiryReceivedKey   BindingKey = "inquiry.received"
)

type binding struct {
	exchange Exchange
	queue    Queue
	key      BindingKey
}

var bindings = []binding{
	{UserExchange, UserCreatedQueue, UserCreatedKey},
	{ContentExchange, ReviewCreatedQueue, ReviewCreatedKey},
	{ContentExchange, InquiryReceivedQueue, InquiryReceivedKey},
}

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(URI string) (*MessageBroker, error) {
	conn, err := amqp.Dial(URI)
	if err != nil {
		return nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	return &MessageBroker{
		conn: conn,
		ch:   ch,
	}, nil
}

// Close closes the connection and channel of the message broker.
func (mb *MessageBroker) Close() error {
	err := mb.ch.Close()
	if err != nil {
		return err
	}

	return mb.conn.Close()
}

// SetupExchanges declares the durable exchanges and queues the services publish to and binds them.
func SetupExchanges(mb *MessageBroker) error {
	declared := make(map[Exchange]bool)

	for _, b := range bindings {
		if !declared[b.exchange] {
			err := mb.ch.ExchangeDeclare(string(b.exchange), "direct", true, false, false, false, nil)
			if err != nil {
				return fmt.Errorf("could not declare exchange %s: %w", b.exchange, err)
			}
			declared[b.exchange] = true
		}

		_, err := mb.ch.QueueDeclare(string(b.queue), true, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("could not declare queue %s: %w", b.queue, err)
		}

		err = mb.ch.QueueBind(string(b.queue), string(b.key), string(b.exchange), false, nil)
		if err != nil {
			return fmt.Errorf("could not bind queue %s: %w", b.queue, err)
		}
	}

	return nil
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(queue), string(key), false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message: %w", err)
	}

	return msgs, nil
}
