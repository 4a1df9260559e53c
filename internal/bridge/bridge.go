package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/delivery"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/pubsub"
)

// bridgeQueue receives a copy of every participant-routed message via the
// wildcard binding.
const bridgeQueue = "chat.bridge"

// Bridge drains broker-delivered chat messages and republishes them to the
// push transport channels, so clients connected over WebSocket keep receiving
// live pushes while the queue strategy is active.
type Bridge struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	pub      pubsub.Publisher
	exchange string
}

// New connects to the broker and declares the bridge queue bound to the
// participant wildcard.
func New(cfg delivery.BrokerConfig, pub pubsub.Publisher) (*Bridge, error) {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = delivery.DefaultExchange
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
	if _, err := ch.QueueDeclare(bridgeQueue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare bridge queue: %w", err)
	}
	if err := ch.QueueBind(bridgeQueue, delivery.RoutingKeyWildcard, exchange, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind bridge queue: %w", err)
	}

	return &Bridge{
		conn:     conn,
		ch:       ch,
		pub:      pub,
		exchange: exchange,
	}, nil
}

// Run consumes the bridge queue until the context is cancelled. Messages are
// acked after the forward succeeds (at-least-once into the push transport).
func (b *Bridge) Run(ctx context.Context) error {
	deliveries, err := b.ch.Consume(bridgeQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	log.L().Info().Str("queue", bridgeQueue).Msg("bridge consumer started")

	for {
		select {
		case <-ctx.Done():
			log.L().Info().Msg("bridge consumer stopping")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("broker delivery channel closed")
			}
			b.handle(ctx, d)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, d amqp.Delivery) {
	l := log.L()

	side, id, ok := delivery.ParseRoutingKey(d.RoutingKey)
	if !ok {
		l.Warn().Str("routing_key", d.RoutingKey).Msg("unexpected routing key, skipping")
		d.Ack(false)
		return
	}

	var event pubsub.Event
	if err := json.Unmarshal(d.Body, &event); err != nil {
		// Malformed payloads will never parse; drop instead of requeueing.
		l.Warn().Err(err).Str("routing_key", d.RoutingKey).Msg("malformed delivery, skipping")
		d.Ack(false)
		return
	}

	var channel string
	if side == "user" {
		channel = pubsub.UserChannel(id)
	} else {
		channel = pubsub.SalonChannel(id)
	}

	if err := b.pub.Publish(ctx, channel, &event); err != nil {
		l.Error().Err(err).Str("channel", channel).Msg("failed to forward to push transport, requeueing")
		d.Nack(false, true)
		return
	}

	d.Ack(false)
	l.Debug().
		Str("routing_key", d.RoutingKey).
		Str("channel", channel).
		Str(log.FieldRoomID, event.RoomID).
		Msg("message bridged to push transport")
}

// Close closes the broker connection.
func (b *Bridge) Close() error {
	return b.conn.Close()
}
