package notifier

import (
	"context"
	"encoding/json"

	"medtrack/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// topicMessage is the wire format published to the notification queue.
type topicMessage struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// AMQPPublisher broadcasts notifications to a durable RabbitMQ queue.
type AMQPPublisher struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	queueName string
	cb        *gobreaker.CircuitBreaker
}

func NewAMQPPublisher(cfg config.BrokerConfig) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Declare the queue (idempotent)
	_, err = ch.QueueDeclare(
		cfg.Topic,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{
		conn:      conn,
		ch:        ch,
		queueName: cfg.Topic,
		cb:        newCircuitBreaker("AMQP-Publisher"),
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, subject, body string) error {
	payload, err := json.Marshal(topicMessage{Subject: subject, Message: body})
	if err != nil {
		return err
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		err := p.ch.PublishWithContext(
			ctx,
			"",          // exchange (default)
			p.queueName, // routing key == queue name
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         payload,
			},
		)
		return nil, err
	})
	return err
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
