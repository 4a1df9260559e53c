package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/pubsub"
)

// BrokerConfig holds message-broker configuration.
type BrokerConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// BrokerAdmin provisions broker topology. Both operations are idempotent
// declare-if-absent calls, safe under concurrent callers.
type BrokerAdmin interface {
	DeclareQueue(name string, args amqp.Table) error
	DeclareBinding(queueName, exchange, routingKey string) error
}

// Participant queues are retained for offline participants but have no
// standing consumer of their own, so the broker caps them: messages expire
// after a week and each queue holds at most queueMaxLength entries, oldest
// dropped first.
const (
	queueMessageTTL = 7 * 24 * time.Hour
	queueMaxLength  = 10000
)

func participantQueueArgs() amqp.Table {
	return amqp.Table{
		"x-message-ttl": int32(queueMessageTTL / time.Millisecond),
		"x-max-length":  int32(queueMaxLength),
	}
}

// brokerPublisher is the subset of the AMQP channel used for publishing.
type brokerPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueFanout delivers messages through durable per-participant queues on a
// topic exchange. Queues survive participant disconnects; a bridge consumer
// drains them back into the push transport for live clients.
type QueueFanout struct {
	conn     *amqp.Connection
	admin    BrokerAdmin
	pub      brokerPublisher
	exchange string

	mu          sync.Mutex
	provisioned map[string]struct{}
}

// NewQueueFanout dials the broker and declares the shared topic exchange.
func NewQueueFanout(cfg BrokerConfig) (*QueueFanout, error) {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open broker channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &QueueFanout{
		conn:        conn,
		admin:       &amqpAdmin{ch: ch},
		pub:         ch,
		exchange:    exchange,
		provisioned: make(map[string]struct{}),
	}, nil
}

// newQueueFanout wires a fanout over explicit admin and publisher values.
func newQueueFanout(admin BrokerAdmin, pub brokerPublisher, exchange string) *QueueFanout {
	return &QueueFanout{
		admin:       admin,
		pub:         pub,
		exchange:    exchange,
		provisioned: make(map[string]struct{}),
	}
}

// Deliver publishes the message once per participant routing key with
// persistent delivery mode. Provisioning is re-checked first: room creation
// ensures it best-effort only, and an unprovisioned participant would make
// the publish silently unroutable.
func (f *QueueFanout) Deliver(ctx context.Context, room *domain.ChatRoom, msg *domain.ChatMessageResponse) error {
	if err := f.EnsureParticipants(ctx, room); err != nil {
		return err
	}

	event, err := pubsub.NewEvent(pubsub.EventMessageCreated, room.ID, msg)
	if err != nil {
		return fmt.Errorf("failed to build delivery event: %w", err)
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery event: %w", err)
	}

	for _, key := range []string{UserRoutingKey(room.UserID), SalonRoutingKey(room.SalonID)} {
		err := f.pub.PublishWithContext(ctx, f.exchange, key, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("failed to publish to %s: %w", key, err)
		}
	}
	return nil
}

// EnsureParticipants declares the durable queue and binding for both
// participants of the room. Declarations are idempotent on the broker;
// the local set only skips redundant round-trips.
func (f *QueueFanout) EnsureParticipants(ctx context.Context, room *domain.ChatRoom) error {
	if err := f.ensure(UserQueueName(room.UserID), UserRoutingKey(room.UserID)); err != nil {
		return err
	}
	return f.ensure(SalonQueueName(room.SalonID), SalonRoutingKey(room.SalonID))
}

func (f *QueueFanout) ensure(queue, routingKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.provisioned[queue]; ok {
		return nil
	}

	if err := f.admin.DeclareQueue(queue, participantQueueArgs()); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	if err := f.admin.DeclareBinding(queue, f.exchange, routingKey); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}

	f.provisioned[queue] = struct{}{}
	return nil
}

// Close closes the broker connection.
func (f *QueueFanout) Close() error {
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}

// amqpAdmin implements BrokerAdmin over an AMQP channel.
type amqpAdmin struct {
	mu sync.Mutex
	ch *amqp.Channel
}

func (a *amqpAdmin) DeclareQueue(name string, args amqp.Table) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.ch.QueueDeclare(name, true, false, false, false, args)
	return err
}

func (a *amqpAdmin) DeclareBinding(queueName, exchange, routingKey string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ch.QueueBind(queueName, routingKey, exchange, false, nil)
}
