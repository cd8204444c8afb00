package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// ExchangeProjects — обменник для событий жизненного цикла проектов.
const ExchangeProjects = "projects"

// RoutingKeyExpired — ключ маршрутизации событий истечения проектов.
const RoutingKeyExpired = "expired"

// QueueConfig связывает очередь с ключом маршрутизации обменника projects.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetProjectQueues возвращает очереди, объявляемые при старте.
func GetProjectQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "projects.expired", RoutingKey: RoutingKeyExpired},
	}
}

// SetupChannel открывает канал, объявляет обменник projects
// и привязывает к нему переданные очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		ExchangeProjects,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			ExchangeProjects,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
