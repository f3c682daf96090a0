package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tooloo/tooloo-go/pkg/cards"
	"github.com/tooloo/tooloo-go/pkg/chat"
	"github.com/tooloo/tooloo-go/pkg/stream"
)

var cardCategoryColors = map[cards.Category]string{
	cards.CategoryTechnical:  "63",
	cards.CategoryCreative:   "212",
	cards.CategoryAnalytical: "214",
	cards.CategoryPractical:  "78",
}

func newIdeateCmd() *cobra.Command {
	var (
		save       bool
		minCards   int
		classifier string
	)

	cmd := &cobra.Command{
		Use:   "ideate <prompt>",
		Short: "Generate option cards for a prompt",
		Long: `Streams one creative-mode response and splits it into categorized
option cards, the way the creation-space view does. With --save each card is
persisted as an artifact on the backend.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runIdeate(strings.Join(args, " "), save, minCards, classifier)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save the generated cards as artifacts")
	cmd.Flags().IntVar(&minCards, "min-cards", 0, "minimum number of cards (default from config)")
	cmd.Flags().StringVar(&classifier, "classifier", "", "classifier name (default from config)")
	return cmd
}

func runIdeate(prompt string, save bool, minCards int, classifierName string) {
	if minCards <= 0 {
		minCards = cfg.MinCards
	}
	if classifierName == "" {
		classifierName = cfg.Classifier
	}
	classify, ok := cards.Get(classifierName)
	if !ok {
		log.Fatal().Str("classifier", classifierName).Strs("known", cards.Names()).Msg("Unknown classifier")
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " generating options..."
	sp.Start()

	client := newBackendClient()
	res, err := client.Stream(context.Background(), chat.Request{
		Message:   prompt,
		Mode:      chat.ModeCreative,
		SessionID: uuid.NewString(),
		Context:   map[string]any{"persona": appState.Get().Persona},
	}, stream.Callbacks{
		OnThought: func(t stream.Thinking) {
			sp.Suffix = " " + t.Stage + "..."
		},
	})
	sp.Stop()
	if err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}

	segmenter := cards.NewSegmenter(
		cards.WithClassifier(classify),
		cards.WithMinCards(minCards),
	)
	generated := segmenter.Segment(res.Content)

	for _, card := range generated {
		renderCard(card)
	}
	fmt.Printf("\n%d options via %s/%s\n", len(generated), res.Metadata.Provider, res.Metadata.Model)

	if !save {
		return
	}
	for _, card := range generated {
		if card.Placeholder {
			continue
		}
		saved, err := client.SaveArtifact(context.Background(), chat.Artifact{
			Title:    card.Title,
			Category: string(card.Category),
			Content:  card.Body,
		})
		if err != nil {
			log.Error().Err(err).Str("title", card.Title).Msg("Failed to save card")
			continue
		}
		log.Info().Str("id", saved.ID).Str("title", saved.Title).Msg("Saved card")
	}
}

func renderCard(card cards.Card) {
	colorCode, ok := cardCategoryColors[card.Category]
	if !ok {
		colorCode = "245"
	}
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorCode)).
		Padding(0, 1).
		Margin(1, 0, 0, 0).
		Width(72)
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorCode))
	tag := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true)

	title := header.Render(card.Title) + " " + tag.Render("["+string(card.Category)+"]")
	body := card.Body
	if card.Placeholder {
		body = tag.Render(body)
	}
	fmt.Println(box.Render(title + "\n" + body))
}
