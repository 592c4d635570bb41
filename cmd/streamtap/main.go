// streamtap connects to a venue stream and prints decoded events to console.
// Usage: go run ./cmd/streamtap --config configs/recorder.local.yaml
//
// Without a config file the connection is described by flags:
//
//	go run ./cmd/streamtap --url ws://localhost:3000 --venue 12 --preset kitchen --station grill
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/restosuite/venuestream/internal/config"
	"github.com/restosuite/venuestream/internal/events"
	"github.com/restosuite/venuestream/internal/realtime"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	baseURL := flag.String("url", "", "dashboard base URL, e.g. ws://localhost:3000")
	venueID := flag.Int("venue", 0, "venue id")
	token := flag.String("token", "", "stream token (switches to token auth)")
	preset := flag.String("preset", "", "channel preset: kitchen, hardware or notifications")
	station := flag.String("station", "", "kitchen station scope for the kitchen preset")
	devices := flag.String("devices", "", "comma separated device types for the hardware preset")
	channels := flag.String("channels", "", "comma separated channel list (overrides preset)")
	verbose := flag.Bool("verbose", false, "print full message JSON")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Start from the config file when given, then let flags override
	clientCfg := realtime.DefaultConfig()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		clientCfg = cfg.Realtime.ClientConfig()
	}
	if *baseURL != "" {
		clientCfg.BaseURL = *baseURL
	}
	if *venueID > 0 {
		clientCfg.VenueID = *venueID
	}
	if *token != "" {
		clientCfg.AuthMode = realtime.AuthToken
		clientCfg.Token = *token
	}

	switch {
	case *channels != "":
		clientCfg.Channels = splitList(*channels)
	case *preset == "kitchen":
		clientCfg.Channels = realtime.KitchenChannels(*station)
	case *preset == "hardware":
		clientCfg.Channels = realtime.HardwareChannels(splitList(*devices)...)
	case *preset == "notifications":
		clientCfg.Channels = realtime.NotificationChannels()
	case *preset != "":
		logger.Error("unknown preset", "preset", *preset)
		os.Exit(1)
	}

	clientCfg.OnMessage = func(msg realtime.Message) {
		printEvent(msg, *verbose)
	}
	clientCfg.OnConnect = func() {
		logger.Info("stream connected")
	}
	clientCfg.OnDisconnect = func() {
		logger.Warn("stream disconnected")
	}

	client, err := realtime.NewClient(clientCfg, logger)
	if err != nil {
		logger.Error("invalid client config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	logger.Info("connecting",
		"venue", clientCfg.VenueID,
		"channels", strings.Join(clientCfg.Channels, ","),
		"auth_mode", string(clientCfg.AuthMode),
	)
	if err := client.Connect(ctx); err != nil {
		logger.Warn("initial connect failed", "error", err)
	}

	// Stats printer
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := client.Stats()
				logger.Info("stats",
					"state", stats.State.String(),
					"received", stats.MessagesReceived,
					"parse_errors", stats.ParseErrors,
					"reconnects", stats.Reconnects,
					"keepalives", stats.KeepalivesSent,
					"history", stats.HistoryLen,
				)
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop")

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")
	client.Disconnect()
	logger.Info("shutdown complete")
}

// splitList splits a comma separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printEvent(msg realtime.Message, verbose bool) {
	if verbose {
		data, _ := json.MarshalIndent(msg, "", "  ")
		fmt.Printf("[EVENT] %s\n", data)
		return
	}

	ev, err := events.Decode(msg)
	if err != nil {
		fmt.Printf("[%s] bad payload: %v\n", strings.ToUpper(msg.Event), err)
		return
	}

	switch {
	case ev.Ticket != nil:
		t := ev.Ticket
		fmt.Printf("[TICKET] event=%s id=%d station=%s table=%s status=%s items=%d\n",
			msg.Event, t.TicketID, t.Station, t.Table, t.Status, len(t.Items))
	case ev.Reading != nil:
		r := ev.Reading
		fmt.Printf("[SENSOR] device=%s type=%s %s=%.2f%s\n",
			r.DeviceID, r.DeviceType, r.Metric, r.Value, r.Unit)
	case ev.Stock != nil:
		s := ev.Stock
		fmt.Printf("[STOCK] event=%s item=%d name=%s level=%.1f threshold=%.1f\n",
			msg.Event, s.ItemID, s.Name, s.Level, s.Threshold)
	case ev.Note != nil:
		n := ev.Note
		fmt.Printf("[NOTICE] event=%s severity=%s title=%s body=%s\n",
			msg.Event, n.Severity, n.Title, n.Body)
	default:
		fmt.Printf("[UNKNOWN] event=%s payload=%s\n", msg.Event, msg.Data)
	}
}
