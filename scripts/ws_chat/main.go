package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/hangrelay/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	base := flag.String("addr", "ws://localhost:8000", "server base address")
	client := flag.String("client", "1", "client id")
	room := flag.String("room", "general", "room to join")
	work := flag.Bool("work", false, "join a work room (room must look like <team>_<context>)")
	user := flag.String("user", "", "display name for work rooms")
	flag.Parse()

	target := *base + "/ws/community/" + url.PathEscape(*room) + "/" + url.PathEscape(*client)
	if *work {
		target = *base + "/ws/work/" + url.PathEscape(*room) + "/" + url.PathEscape(*client)
		if *user != "" {
			target += "?username=" + url.QueryEscape(*user)
		}
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.CloseNow()

	fmt.Printf("Connected to %s\n", target)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn)

	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var out proto.Outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			var ce websocket.CloseError
			if errors.As(err, &ce) {
				fmt.Printf("connection closed: %s\n", ce.Reason)
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch out.Type {
		case proto.OutboundTypeChat:
			from := out.SenderName
			if from == "" {
				from = "#" + out.SenderID
			}
			fmt.Printf("[%s] %s: %s\n", out.Room, from, out.Content)
		case proto.OutboundTypeSystem:
			fmt.Printf("[%s] * %s\n", out.Room, out.Content)
		case proto.OutboundTypeMembers:
			names := make([]string, 0, len(out.Members))
			for _, name := range out.Members {
				names = append(names, name)
			}
			fmt.Printf("[%s] online: %s\n", out.Room, strings.Join(names, ", "))
		case proto.OutboundTypeError:
			fmt.Printf("error (%s): %s\n", out.Code, out.Content)
		default:
			fmt.Printf("%+v\n", out)
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
				log.Printf("send: %v", err)
				return
			}
		}
	}
}
