// Package feed bridges the external all-market ticker websocket stream
// into batches of decoded records on an internal queue. It holds no
// shared state: decode and forward only.
package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gorilla/websocket"

	"tickerdeck/internal/ticker"
)

// Bridge owns the long-lived stream subscription. Decoded batches are
// sent to Batches; the channel is buffered so a render-side stall does
// not immediately stall the read loop.
type Bridge struct {
	url     string
	log     *slog.Logger
	batches chan []ticker.Record
}

// queueDepth is the batch queue capacity. The feed emits roughly one
// array frame per second, so a full queue means the ingest loop has been
// stalled for about a minute; the bridge then blocks rather than drop,
// preserving arrival order.
const queueDepth = 64

// NewBridge creates a bridge for the given stream URL.
func NewBridge(url string, log *slog.Logger) *Bridge {
	return &Bridge{
		url:     url,
		log:     log,
		batches: make(chan []ticker.Record, queueDepth),
	}
}

// Batches returns the queue of decoded batches, closed when Run returns.
func (b *Bridge) Batches() <-chan []ticker.Record { return b.batches }

// Run dials the stream and forwards decoded batches until ctx is
// cancelled or the connection fails. A malformed message is dropped with
// a warning; a read error ends the subscription and is returned to the
// caller, which decides whether that is fatal. There is no reconnect.
func (b *Bridge) Run(ctx context.Context) error {
	defer close(b.batches)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", b.url, err)
	}
	defer conn.Close()
	b.log.Info("subscribed to ticker stream", "url", b.url)

	// Unblock ReadMessage when ctx is cancelled.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading ticker stream: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}

		records, skipped, err := decodeBatch(data)
		if err != nil {
			b.log.Warn("dropping malformed message", "error", err)
			continue
		}
		if skipped > 0 {
			b.log.Warn("skipped unparseable tickers", "count", skipped)
		}
		if len(records) == 0 {
			continue
		}

		select {
		case b.batches <- records:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
