package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tooloo/tooloo-go/pkg/health"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow backend health in realtime",
		Long: `Subscribes to the backend's health stream over WebSocket. If the
socket keeps dropping, falls back to polling the REST health endpoint.`,
		Run: func(cmd *cobra.Command, args []string) {
			runWatch()
		},
	}
}

func runWatch() {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	dim := color.New(color.FgHiBlack)

	client := newBackendClient()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := health.NewMonitor(cfg.Health.SocketURL, client.Health,
		health.WithReconnectPolicy(cfg.Health.MaxReconnectAttempts, 500*time.Millisecond, 15*time.Second),
		health.WithPollInterval(time.Duration(cfg.Health.PollIntervalSeconds)*time.Second),
		health.WithLogger(log.Logger),
		health.OnState(func(s health.State) {
			switch s.Phase {
			case health.PhaseConnected:
				green.Fprintln(os.Stderr, "connected to health stream")
			case health.PhaseReconnecting:
				yellow.Fprintf(os.Stderr, "reconnecting (attempt %d)...\n", s.Attempt)
			case health.PhasePollingFallback:
				yellow.Fprintln(os.Stderr, "socket unavailable, polling instead")
			}
		}),
		health.OnUpdate(func(u health.Update) {
			statusColor := green
			switch u.Snapshot.Status {
			case "degraded":
				statusColor = yellow
			case "down", "unhealthy":
				statusColor = red
			}
			fmt.Printf("%s %s", time.Now().Format("15:04:05"), statusColor.Sprint(u.Snapshot.Status))
			if u.Snapshot.LatencyMS > 0 {
				fmt.Printf(" %.0fms", u.Snapshot.LatencyMS)
			}
			for name, state := range u.Snapshot.Providers {
				dim.Printf("  %s=%s", name, state)
			}
			dim.Printf("  (%s)\n", u.Source)
		}),
	)

	if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Health monitor stopped")
	}
}
