package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tooloo/tooloo-go/pkg/chat"
	"github.com/tooloo/tooloo-go/pkg/stream"
	"github.com/tooloo/tooloo-go/pkg/tui"
	"github.com/tooloo/tooloo-go/pkg/view"
)

func newChatCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the assistant",
		Long: `Without arguments, opens the interactive chat view. With a message
argument (or --plain), streams a single answer to stdout and exits.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 0 || plain {
				runPlainChat(strings.Join(args, " "))
				return
			}
			runInteractiveChat()
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "stream to stdout without the TUI")
	return cmd
}

func runInteractiveChat() {
	model := tui.NewModel(newBackendClient(), appState, uuid.NewString(), cfg.Mode, cfg.ThoughtLogBound)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal().Err(err).Msg("Chat view failed")
	}
}

func runPlainChat(message string) {
	if strings.TrimSpace(message) == "" {
		log.Error().Msg("A message is required with --plain")
		os.Exit(1)
	}

	dim := color.New(color.FgHiBlack)
	cyan := color.New(color.FgCyan)

	thoughts := view.NewThoughtLog(cfg.ThoughtLogBound)
	client := newBackendClient()

	res, err := client.Stream(context.Background(), chat.Request{
		Message:   message,
		Mode:      cfg.Mode,
		SessionID: uuid.NewString(),
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		Context:   map[string]any{"persona": appState.Get().Persona},
	}, stream.Callbacks{
		OnChunk: func(chunk, accumulated string) {
			fmt.Print(chunk)
		},
		OnThought: func(t stream.Thinking) {
			entry := t.Stage
			if t.Message != "" {
				entry = t.Stage + ": " + t.Message
			}
			thoughts.Append(entry, view.EntryInfo)
			dim.Fprintf(os.Stderr, "· %s\n", entry)
		},
		OnMetaUpdate: func(m stream.Meta) {
			if m.Persona != "" {
				appState.SetPersona(m.Persona)
			}
		},
	})
	if err != nil {
		fmt.Println()
		log.Error().Err(err).Msg("Streaming failed")
		os.Exit(1)
	}

	appState.SetRouting(res.Metadata.Provider, res.Metadata.Model)
	fmt.Println()
	cyan.Fprintf(os.Stderr, "via %s/%s", res.Metadata.Provider, res.Metadata.Model)
	if res.Metadata.CostUSD > 0 {
		cyan.Fprintf(os.Stderr, " ($%.4f)", res.Metadata.CostUSD)
	}
	fmt.Fprintln(os.Stderr)
}
