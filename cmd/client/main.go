// Relay client - streams microphone audio to the relay and saves the
// translated audio it receives back
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vaanihq/platform/internal/audio"
)

const chunkMillis = 300

type joinedMessage struct {
	Type         string `json:"type"`
	Device       string `json:"device"`
	Conversation string `json:"conversation"`
	Source       string `json:"source"`
	Target       string `json:"target"`
}

func main() {
	server := flag.String("server", "ws://localhost:8000", "relay server URL")
	room := flag.String("room", "", "conversation room (optional)")
	src := flag.String("src", "English", "spoken language")
	tgt := flag.String("tgt", "Hindi", "language to hear")
	device := flag.String("device", "", "device identity (default: hostname)")
	out := flag.String("out", "received", "directory for translated audio")
	rate := flag.Int("rate", 16000, "capture sample rate")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *device == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "client"
		}
		*device = host
	}

	if err := run(*server, *room, *src, *tgt, *device, *out, *rate); err != nil {
		slog.Error("client error", "error", err)
		os.Exit(1)
	}
}

func run(server, room, src, tgt, device, outDir string, rate int) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	addr := fmt.Sprintf("%s/ws/%s/%s/%s", server, url.PathEscape(src), url.PathEscape(tgt), url.PathEscape(device))
	if room != "" {
		addr += "?room=" + url.QueryEscape(room)
	}

	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	conn, _, err := websocket.Dial(dialCtx, addr, nil)
	dialCancel()
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "client exit")
	conn.SetReadLimit(1 << 24)

	var joined joinedMessage
	if err := wsjson.Read(ctx, conn, &joined); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	slog.Info("joined conversation",
		"conversation", joined.Conversation, "source", joined.Source, "target", joined.Target)

	capturer, err := audio.NewCapturer(rate, chunkMillis, 16)
	if err != nil {
		return fmt.Errorf("init capture: %w", err)
	}
	defer capturer.Stop()

	if err := capturer.Start(ctx); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	go receive(ctx, conn, outDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case chunk, ok := <-capturer.Output():
			if !ok {
				return nil
			}
			if err := conn.Write(ctx, websocket.MessageBinary, chunk.Data); err != nil {
				return fmt.Errorf("send chunk: %w", err)
			}
		}
	}
}

// receive saves incoming translated audio and prints server notices.
func receive(ctx context.Context, conn *websocket.Conn, outDir string) {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		switch typ {
		case websocket.MessageText:
			fmt.Println(string(data))
		case websocket.MessageBinary:
			name := filepath.Join(outDir, fmt.Sprintf("%d.mp3", time.Now().UnixNano()))
			if err := os.WriteFile(name, data, 0o644); err != nil {
				slog.Warn("failed to save audio", "error", err)
				continue
			}
			slog.Info("translated audio received", "file", name, "bytes", len(data))
		}
	}
}
