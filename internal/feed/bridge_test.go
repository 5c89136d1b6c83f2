package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newStreamServer runs a websocket endpoint that pushes each message and
// then closes the connection.
func newStreamServer(t *testing.T, messages []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBridgeForwardsBatches(t *testing.T) {
	srv := newStreamServer(t, []string{sampleMessage})
	defer srv.Close()

	b := NewBridge(wsURL(srv), discard())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- b.Run(ctx) }()

	select {
	case batch := <-b.Batches():
		if len(batch) != 2 {
			t.Errorf("batch has %d records, want 2", len(batch))
		}
		if batch[0].Symbol != "BTCUSDT" {
			t.Errorf("first record symbol = %q, want BTCUSDT", batch[0].Symbol)
		}
	case <-ctx.Done():
		t.Fatal("no batch arrived before timeout")
	}

	// Server closes after sending; the bridge reports connection loss.
	if err := <-errCh; err == nil {
		t.Error("Run should return an error when the connection drops")
	}
}

func TestBridgeDropsMalformedMessages(t *testing.T) {
	srv := newStreamServer(t, []string{`not json`, sampleMessage})
	defer srv.Close()

	b := NewBridge(wsURL(srv), discard())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go b.Run(ctx)

	// The malformed message is skipped; the good one still arrives.
	select {
	case batch := <-b.Batches():
		if len(batch) != 2 {
			t.Errorf("batch has %d records, want 2", len(batch))
		}
	case <-ctx.Done():
		t.Fatal("malformed message terminated the bridge")
	}
}

func TestBridgeDialFailureIsFatal(t *testing.T) {
	b := NewBridge("ws://127.0.0.1:1/nope", discard())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.Run(ctx); err == nil {
		t.Error("Run should fail when the dial fails")
	}
}
