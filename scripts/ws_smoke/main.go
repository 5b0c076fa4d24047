package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/hangrelay/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

// run joins a room, relays one message and checks that a second room is
// refused for the same client id.
func run() error {
	base := flag.String("addr", "ws://localhost:8000", "server base address")
	client := flag.String("client", "smoke-1", "client id")
	room := flag.String("room", "general", "room name")
	other := flag.String("other", "random", "second room the client must be refused from")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, fmt.Sprintf("%s/ws/community/%s/%s", *base, *room, *client), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	joined, err := expect(ctx, conn, proto.OutboundTypeSystem)
	if err != nil {
		return err
	}
	fmt.Printf("Joined: %s\n", joined.Content)

	if err := conn.Write(ctx, websocket.MessageText, []byte(*text)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	chat, err := expect(ctx, conn, proto.OutboundTypeChat)
	if err != nil {
		return err
	}
	fmt.Printf("Chat: room=%s sender=%s text=%q ts=%d\n", chat.Room, chat.SenderID, chat.Content, chat.TS)

	dup, _, err := websocket.Dial(ctx, fmt.Sprintf("%s/ws/community/%s/%s", *base, *other, *client), nil)
	if err != nil {
		return fmt.Errorf("dial second room: %w", err)
	}
	defer dup.CloseNow()

	rejected, err := expect(ctx, dup, proto.OutboundTypeError)
	if err != nil {
		return err
	}
	fmt.Printf("Rejected: code=%s text=%q\n", rejected.Code, rejected.Content)
	return nil
}

func expect(ctx context.Context, conn *websocket.Conn, typ string) (proto.Outbound, error) {
	for {
		var out proto.Outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			return out, fmt.Errorf("read: %w", err)
		}
		if out.Type == typ {
			return out, nil
		}
		fmt.Printf("Received outbound: type=%s content=%q\n", out.Type, out.Content)
	}
}
