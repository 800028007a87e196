package pkg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go/jetstream"
)

func runJetStreamServer(t *testing.T) string {
	t.Helper()
	ns, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
		NoSigs:    true,
	})
	if err != nil {
		t.Fatalf("server.NewServer() error = %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(ns.Shutdown)
	return ns.ClientURL()
}

func TestNewNATSStreamRequiresSubjects(t *testing.T) {
	_, err := NewNATSStream(context.Background(), NATSStreamConfig{
		URL:        DefaultNATSURL,
		StreamName: "FLOOR_EVENTS",
	})
	if err == nil {
		t.Error("NewNATSStream() without subjects error = nil, want error")
	}
}

func TestNATSStreamFetchIsRepeatable(t *testing.T) {
	ctx := context.Background()
	url := runJetStreamServer(t)

	svc, err := NewNATSStream(ctx, NATSStreamConfig{
		URL:        url,
		Name:       "floor",
		StreamName: "FLOOR_EVENTS",
		Subjects:   []string{"floor.>"},
		MaxAge:     time.Hour,
	})
	if err != nil {
		t.Fatalf("NewNATSStream() error = %v", err)
	}
	defer svc.Close()

	info, err := svc.stream.Info(ctx)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.State.Consumers != 0 {
		t.Errorf("consumers = %d, want 0 without a consumer name", info.State.Consumers)
	}

	for _, topic := range []string{"floor.tables", "floor.tickets", "floor.bills"} {
		if err := svc.Publish(ctx, topic, []byte(`{"event_type":"test"}`)); err != nil {
			t.Fatalf("Publish(%s) error = %v", topic, err)
		}
	}

	for run := 1; run <= 2; run++ {
		reader, err := OpenNATSStream(ctx, url, "floor-utils", "FLOOR_EVENTS")
		if err != nil {
			t.Fatalf("OpenNATSStream() error = %v", err)
		}
		messages, err := reader.Fetch(ctx, 1000)
		reader.Close()
		if err != nil {
			t.Fatalf("Fetch() run %d error = %v", run, err)
		}
		if len(messages) != 3 {
			t.Fatalf("Fetch() run %d = %d messages, want 3", run, len(messages))
		}
		for i, m := range messages {
			if m.Sequence != uint64(i+1) {
				t.Errorf("run %d message %d sequence = %d, want %d", run, i, m.Sequence, i+1)
			}
		}
	}

	info, err = svc.stream.Info(ctx)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.Config.MaxAge != time.Hour {
		t.Errorf("MaxAge = %v after replay, want %v", info.Config.MaxAge, time.Hour)
	}
}

func TestNATSStreamFetchLimit(t *testing.T) {
	ctx := context.Background()
	url := runJetStreamServer(t)

	s, err := NewNATSStream(ctx, NATSStreamConfig{
		URL:        url,
		Name:       "floor",
		StreamName: "FLOOR_EVENTS",
		Subjects:   []string{"floor.>"},
	})
	if err != nil {
		t.Fatalf("NewNATSStream() error = %v", err)
	}
	defer s.Close()

	empty, err := s.Fetch(ctx, 10)
	if err != nil || len(empty) != 0 {
		t.Errorf("Fetch() on empty stream = %d messages, %v; want 0, nil", len(empty), err)
	}

	for i := 0; i < 4; i++ {
		_ = s.Publish(ctx, "floor.tickets", []byte(`{}`))
	}
	messages, err := s.Fetch(ctx, 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("Fetch(2) = %d messages, want 2", len(messages))
	}
}

func TestOpenNATSStreamMissing(t *testing.T) {
	url := runJetStreamServer(t)

	_, err := OpenNATSStream(context.Background(), url, "floor-utils", "FLOOR_EVENTS")
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		t.Errorf("OpenNATSStream() error = %v, want %v", err, jetstream.ErrStreamNotFound)
	}
}

func TestNATSStreamSubscribeNeedsConsumer(t *testing.T) {
	ctx := context.Background()
	url := runJetStreamServer(t)

	s, err := NewNATSStream(ctx, NATSStreamConfig{
		URL:        url,
		Name:       "floor",
		StreamName: "FLOOR_EVENTS",
		Subjects:   []string{"floor.>"},
	})
	if err != nil {
		t.Fatalf("NewNATSStream() error = %v", err)
	}
	defer s.Close()

	if err := s.SubscribeStream(ctx, func(context.Context, []byte) error { return nil }); err == nil {
		t.Error("SubscribeStream() without a consumer error = nil, want error")
	}
}
