package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/floor/pkg"
	"github.com/appetiteclub/floor/pkg/event"
)

const utilsClientName = "floor-utils"

// Watch prints floor events as they are published until ctx is done.
func Watch(ctx context.Context, out io.Writer, config *apt.Config, logger apt.Logger) error {
	natsURL := config.GetStringOrDef("nats.url", pkg.DefaultNATSURL)

	sub, err := pkg.NewNATSSubscriber(natsURL, utilsClientName, logger)
	if err != nil {
		return err
	}
	defer sub.Close()

	if err := sub.Subscribe(ctx, event.FloorSubjects, func(ctx context.Context, msg []byte) error {
		return PrintEvent(out, time.Now(), msg)
	}); err != nil {
		return err
	}

	logger.Info("Watching floor events", "subject", event.FloorSubjects, "url", natsURL)
	<-ctx.Done()
	return nil
}

// Replay prints every event stored in the service's stream, oldest first. It
// leaves the stream untouched, so it can be run any number of times.
func Replay(ctx context.Context, out io.Writer, config *apt.Config, logger apt.Logger) error {
	stream, err := pkg.OpenNATSStream(ctx,
		config.GetStringOrDef("nats.url", pkg.DefaultNATSURL),
		utilsClientName,
		config.GetStringOrDef("nats.stream.name", "FLOOR_EVENTS"),
	)
	if err != nil {
		return err
	}
	defer stream.Close()

	limit := config.GetIntOrDef("replay.limit", 1000)
	messages, err := stream.Fetch(ctx, limit)
	if err != nil {
		return err
	}

	for _, m := range messages {
		if err := PrintEvent(out, time.Unix(0, m.Timestamp), m.Data); err != nil {
			return err
		}
	}
	logger.Info("Replay finished", "events", len(messages))
	return nil
}

type envelope struct {
	EventType string `json:"event_type"`
	TableID   int    `json:"table_id"`
	ItemName  string `json:"item_name,omitempty"`
	Status    string `json:"status,omitempty"`
	Final     string `json:"final,omitempty"`
}

// PrintEvent writes one event as a single readable line.
func PrintEvent(out io.Writer, at time.Time, data []byte) error {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("cannot decode event: %w", err)
	}

	detail := ""
	switch e.EventType {
	case event.EventTicketQueued, event.EventTicketDispatched:
		detail = e.ItemName
	case event.EventTableStatusChanged:
		detail = e.Status
	case event.EventTableClosed:
		detail = "final " + e.Final
	}

	_, err := fmt.Fprintf(out, "%s  %-32s table=%d %s\n", at.Format("15:04:05"), e.EventType, e.TableID, detail)
	return err
}
