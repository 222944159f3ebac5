package main

import (
	"chat-relay/e2e"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
)

func main() {
	config, err := e2e.LoadConfig()
	if err != nil {
		color.Error.Println("Config error:", err)
		os.Exit(2)
	}
	flag.StringVar(&config.RelayAddr, "relay", config.RelayAddr, "Relay base URL")
	flag.StringVar(&config.Room, "room", config.Room, "Room to send into")
	content := flag.String("content", "", "Message content (random when empty)")
	flag.Parse()

	if config.RelayAddr == "" {
		config.RelayAddr = "http://localhost:8080"
	}
	if *content == "" {
		*content = fmt.Sprintf("tester ping %s", uuid.NewString())
	}

	client := e2e.NewAgentClient(config, func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	client.Header("Send")
	start := time.Now()
	tx, err := client.Send(ctx, config.Room, *content)
	if err != nil {
		color.Error.Println("Send failed:", err)
		os.Exit(1)
	}
	color.Info.Printf("Sent to %s, tx %s\n", config.Room, tx)

	client.Header("Read back")
	message, err := client.AwaitContent(ctx, config.Room, *content, config.PollInterval)
	if err != nil {
		color.Error.Println("Round trip failed:", err)
		os.Exit(1)
	}
	color.Success.Printf("Visible in %s after %v (id %s, author %s)\n",
		message.Room, time.Since(start).Round(time.Millisecond), message.ID, message.Author)
}
