package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend status and available providers",
		Run: func(cmd *cobra.Command, args []string) {
			runStatus()
		},
	}
}

func runStatus() {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	dim := color.New(color.FgHiBlack)

	client := newBackendClient()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := client.Status(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch system status")
	}

	cyan.Println("System")
	statusColor := green
	if st.Status != "healthy" {
		statusColor = yellow
	}
	fmt.Printf("  status:  %s\n", statusColor.Sprint(st.Status))
	fmt.Printf("  version: %s\n", st.Version)
	if st.UptimeSeconds > 0 {
		started := time.Now().Add(-time.Duration(st.UptimeSeconds * float64(time.Second)))
		fmt.Printf("  up:      %s\n", humanize.Time(started))
	}
	if st.ActiveModel != "" {
		fmt.Printf("  model:   %s\n", st.ActiveModel)
	}
	if st.TotalCostUSD > 0 {
		fmt.Printf("  spend:   $%s\n", humanize.CommafWithDigits(st.TotalCostUSD, 4))
	}

	providers, err := client.Providers(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch provider list")
	}

	fmt.Println()
	cyan.Println("Providers")
	for _, p := range providers {
		marker := green.Sprint("●")
		if !p.Available {
			marker = red.Sprint("○")
		}
		name := p.Name
		if p.Default {
			name += dim.Sprint(" (default)")
		}
		fmt.Printf("  %s %s\n", marker, name)
		for _, m := range p.Models {
			dim.Printf("      %s\n", m)
		}
	}
}
