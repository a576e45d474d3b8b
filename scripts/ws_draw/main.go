package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/wireboard-server/internal/proto"
	"github.com/vovakirdan/wireboard-server/internal/shapeid"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_draw: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	token := flag.String("token", "", "JWT from /api/signin or /api/guest")
	room := flag.String("room", "demo", "room slug to join")
	flag.Parse()

	if *token == "" {
		return fmt.Errorf("-token is required")
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr+"?token="+*token, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(env proto.Envelope) {
		if writeErr := wsjson.Write(ctx, conn, env); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	send(proto.Envelope{Type: proto.TypeJoinRoom, RoomID: *room})

	shape := proto.Shape{
		ID:     shapeid.New(),
		Kind:   proto.ShapeKindRect,
		X:      40,
		Y:      40,
		Width:  120,
		Height: 80,
	}
	payload, err := json.Marshal(shape)
	if err != nil {
		return fmt.Errorf("marshal shape: %w", err)
	}
	send(proto.Envelope{Type: proto.TypeChat, RoomID: *room, Message: string(payload)})

	fmt.Printf("Connected to %s, joined room %s, drew rect %s\n", *addr, *room, shape.ID)
	fmt.Println("Printing broadcasts. Ctrl+C to exit.")

	go func() {
		<-ctx.Done()
		conn.Close(websocket.StatusNormalClosure, "bye")
	}()

	for {
		var env proto.Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		switch env.Type {
		case proto.TypeChat:
			fmt.Printf("[%s] shape: %s\n", env.RoomID, env.Message)
		case proto.TypeDeleteShape:
			fmt.Printf("[%s] deleted: %s\n", env.RoomID, env.ShapeID)
		case proto.TypeClearCanvas:
			fmt.Printf("[%s] canvas cleared\n", env.RoomID)
		case proto.TypeError:
			fmt.Printf("error: %s (%s)\n", env.Error.Msg, env.Error.Code)
		default:
			fmt.Printf("unknown frame: %+v\n", env)
		}
	}
}
