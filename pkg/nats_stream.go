package pkg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/apt/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSStream implements events.Stream on top of a JetStream stream so floor
// events survive subscriber restarts and can be replayed.
type NATSStream struct {
	conn     *nats.Conn
	js       jetstream.JetStream
	stream   jetstream.Stream
	consumer jetstream.Consumer
}

// NATSStreamConfig configures a NATSStream instance.
type NATSStreamConfig struct {
	URL          string
	Name         string        // client connection name
	StreamName   string        // e.g. "FLOOR_EVENTS"
	Subjects     []string      // e.g. "floor.>"
	ConsumerName string        // optional durable consumer for SubscribeStream
	MaxAge       time.Duration // retention window
	MaxMsgs      int64         // 0 = unlimited
}

// NewNATSStream connects and ensures the stream exists with cfg's subjects and
// retention. A durable consumer is created only when ConsumerName is set.
func NewNATSStream(ctx context.Context, cfg NATSStreamConfig) (*NATSStream, error) {
	if len(cfg.Subjects) == 0 {
		return nil, fmt.Errorf("stream %s needs at least one subject", cfg.StreamName)
	}

	conn, js, err := connectJetStream(cfg.URL, cfg.Name)
	if err != nil {
		return nil, err
	}

	streamConfig := jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: cfg.Subjects,
		MaxAge:   cfg.MaxAge,
	}
	if cfg.MaxMsgs > 0 {
		streamConfig.MaxMsgs = cfg.MaxMsgs
	}

	stream, err := js.CreateOrUpdateStream(ctx, streamConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create/update stream %s: %w", cfg.StreamName, err)
	}

	s := &NATSStream{conn: conn, js: js, stream: stream}
	if cfg.ConsumerName == "" {
		return s, nil
	}

	s.consumer, err = stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          cfg.ConsumerName,
		Durable:       cfg.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create/update consumer %s: %w", cfg.ConsumerName, err)
	}
	return s, nil
}

// OpenNATSStream attaches to an existing stream without changing its
// configuration. It fails when the stream does not exist.
func OpenNATSStream(ctx context.Context, url, name, streamName string) (*NATSStream, error) {
	conn, js, err := connectJetStream(url, name)
	if err != nil {
		return nil, err
	}

	stream, err := js.Stream(ctx, streamName)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to look up stream %s: %w", streamName, err)
	}
	return &NATSStream{conn: conn, js: js, stream: stream}, nil
}

func connectJetStream(url, name string) (*nats.Conn, jetstream.JetStream, error) {
	conn, err := connect(url, name)
	if err != nil {
		return nil, nil, err
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return conn, js, nil
}

// Publish waits for the stream acknowledgement.
func (s *NATSStream) Publish(ctx context.Context, topic string, msg []byte) error {
	if _, err := s.js.Publish(ctx, topic, msg); err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}
	return nil
}

// Fetch reads up to limit stored messages from the start of the stream. Each
// call uses its own ordered consumer and acks nothing, so it can be repeated.
func (s *NATSStream) Fetch(ctx context.Context, limit int) ([]events.StreamMessage, error) {
	if limit <= 0 {
		limit = 1000
	}

	info, err := s.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream info: %w", err)
	}
	if info.State.Msgs == 0 {
		return nil, nil
	}
	if info.State.Msgs < uint64(limit) {
		limit = int(info.State.Msgs)
	}

	consumer, err := s.stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ordered consumer: %w", err)
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []events.StreamMessage
	for msg := range batch.Messages() {
		meta, err := msg.Metadata()
		if err != nil {
			continue
		}
		messages = append(messages, events.StreamMessage{
			Data:      msg.Data(),
			Sequence:  meta.Sequence.Stream,
			Timestamp: meta.Timestamp.UnixNano(),
		})
	}
	if err := batch.Error(); err != nil && len(messages) == 0 {
		return nil, fmt.Errorf("fetch batch failed: %w", err)
	}

	return messages, nil
}

// SubscribeStream consumes new messages; a handler error naks for redelivery.
func (s *NATSStream) SubscribeStream(ctx context.Context, handler events.HandlerFunc) error {
	if s.consumer == nil {
		return errors.New("stream has no durable consumer to subscribe with")
	}
	_, err := s.consumer.Consume(func(msg jetstream.Msg) {
		if err := handler(ctx, msg.Data()); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	return err
}

// Subscribe implements events.Subscriber. The topic is fixed by the consumer.
func (s *NATSStream) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	return s.SubscribeStream(ctx, handler)
}

func (s *NATSStream) Close() error {
	s.conn.Close()
	return nil
}
