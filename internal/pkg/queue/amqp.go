package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPBroker publishes tasks to a durable RabbitMQ queue. A delayed task is
// parked in a per-delay retry queue whose messages expire back into the main
// queue through the default exchange.
type AMQPBroker struct {
	conn      *amqp.Connection
	consumeCh *amqp.Channel
	name      string

	pubMu sync.Mutex
	pubCh *amqp.Channel

	declaredMu sync.Mutex
	declared   map[time.Duration]string

	deliveries <-chan amqp.Delivery
}

func NewAMQPBroker(url, name string, prefetch int) (*AMQPBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	b := &AMQPBroker{conn: conn, name: name, declared: make(map[time.Duration]string)}
	if err := b.setup(prefetch); err != nil {
		conn.Close()
		return nil, err
	}
	return b, nil
}

func (b *AMQPBroker) setup(prefetch int) error {
	var err error
	if b.consumeCh, err = b.conn.Channel(); err != nil {
		return fmt.Errorf("open consume channel: %w", err)
	}
	if b.pubCh, err = b.conn.Channel(); err != nil {
		return fmt.Errorf("open publish channel: %w", err)
	}
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := b.consumeCh.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if _, err := b.consumeCh.QueueDeclare(b.name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", b.name, err)
	}
	b.deliveries, err = b.consumeCh.Consume(b.name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue %s: %w", b.name, err)
	}
	return nil
}

// retryQueue declares, once per delay, the queue parking tasks for delay
func (b *AMQPBroker) retryQueue(delay time.Duration) (string, error) {
	b.declaredMu.Lock()
	defer b.declaredMu.Unlock()
	if name, ok := b.declared[delay]; ok {
		return name, nil
	}

	ttl := delay.Milliseconds()
	name := b.name + ".retry." + strconv.FormatInt(ttl, 10)
	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": b.name,
		"x-message-ttl":             ttl,
		"x-expires":                 ttl + time.Hour.Milliseconds(),
	}

	b.pubMu.Lock()
	_, err := b.pubCh.QueueDeclare(name, true, false, false, false, args)
	b.pubMu.Unlock()
	if err != nil {
		return "", fmt.Errorf("declare retry queue %s: %w", name, err)
	}
	b.declared[delay] = name
	return name, nil
}

func (b *AMQPBroker) Publish(ctx context.Context, t Task, delay time.Duration) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}

	routingKey := b.name
	if delay > 0 {
		if routingKey, err = b.retryQueue(delay); err != nil {
			return err
		}
	}

	b.pubMu.Lock()
	defer b.pubMu.Unlock()
	return b.pubCh.PublishWithContext(ctx, "", routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    t.ID,
		Type:         t.Type,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (b *AMQPBroker) Consume(ctx context.Context) (Delivery, error) {
	for {
		select {
		case <-ctx.Done():
			return Delivery{}, ctx.Err()
		case msg, ok := <-b.deliveries:
			if !ok {
				return Delivery{}, ErrClosed
			}
			var t Task
			if err := json.Unmarshal(msg.Body, &t); err != nil {
				// unparseable messages would be redelivered forever
				_ = msg.Nack(false, false)
				continue
			}
			return NewDelivery(t, func(context.Context) error {
				return msg.Ack(false)
			}), nil
		}
	}
}

func (b *AMQPBroker) Ping(context.Context) error {
	if b.conn.IsClosed() {
		return ErrClosed
	}
	return nil
}

func (b *AMQPBroker) Close() error {
	if b.consumeCh != nil {
		b.consumeCh.Close()
	}
	if b.pubCh != nil {
		b.pubCh.Close()
	}
	return b.conn.Close()
}

// withLocker pairs a broker with an external Locker
type withLocker struct {
	Broker
	Locker
}

// WithLocker adds deduplication to a broker that lacks it
func WithLocker(b Broker, l Locker) Broker {
	return withLocker{Broker: b, Locker: l}
}
