package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/hangrelay/internal/core"
)

func TestWSConnSendBackpressure(t *testing.T) {
	conn := newWSConn("c1", nil, 1)

	if err := conn.Send(&core.Event{Kind: core.EventSystem}); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := conn.Send(&core.Event{Kind: core.EventSystem}); !errors.Is(err, core.ErrBackpressure) {
		t.Fatalf("expected backpressure, got %v", err)
	}
}

func TestWSConnCloseOnce(t *testing.T) {
	conn := newWSConn("c1", nil, 4)
	_ = conn.Send(&core.Event{Kind: core.EventSystem, Text: "queued"})

	conn.Close("first")
	conn.Close("second")

	if got := conn.closeReason(); got != "first" {
		t.Fatalf("reason = %q", got)
	}
	if err := conn.Send(&core.Event{Kind: core.EventSystem}); !errors.Is(err, core.ErrConnClosed) {
		t.Fatalf("expected ErrConnClosed, got %v", err)
	}

	// Queued events stay readable after close.
	ev, ok := <-conn.events
	if !ok || ev.Text != "queued" {
		t.Fatalf("expected queued event, got %+v", ev)
	}
	if _, ok := <-conn.events; ok {
		t.Fatalf("expected closed channel")
	}
}

func TestTruncateReason(t *testing.T) {
	short := "bye"
	if got := truncateReason(short); got != short {
		t.Fatalf("short reason changed: %q", got)
	}

	long := strings.Repeat("é", 100)
	got := truncateReason(long)
	if len(got) > maxCloseReason {
		t.Fatalf("reason too long: %d", len(got))
	}
	if !strings.HasPrefix(long, got) || len(got)%2 != 0 {
		t.Fatalf("reason cut mid-rune: %q", got)
	}
}
