package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jeeves-ai/jeeves/internal/assistant"
	"github.com/jeeves-ai/jeeves/internal/history"
)

func newAskCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the fintech assistant a question in English, Spanish, or Portuguese",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			jeeves, closer, err := newAssistant(cfg, nil)
			if err != nil {
				return err
			}
			defer func() {
				_ = closer.Close()
			}()

			question := strings.Join(args, " ")
			started := time.Now()
			reply, err := jeeves.Answer(cmd.Context(), question)
			if err != nil {
				return fmt.Errorf("jeeves.Answer > %w", err)
			}

			renderReply(reply)
			recordReply(cmd, cfg.History.DatabaseFile, question, reply, time.Since(started))
			return nil
		},
	}

	return command
}

func renderReply(reply assistant.Reply) {
	if reply.Degraded {
		color.Yellow("(degraded mode: the provider quota is exhausted, this is a canned answer)")
		color.Yellow("%s", reply.Text)
		return
	}
	if reply.Cached {
		fmt.Println("(cached)")
	}
	fmt.Println(reply.Text)
}

func recordReply(cmd *cobra.Command, databaseFile, question string, reply assistant.Reply, elapsed time.Duration) {
	if databaseFile == "" {
		return
	}
	store, err := history.Open(databaseFile)
	if err != nil {
		color.Red("failed to open the history database: %v", err)
		return
	}
	defer func() {
		_ = store.Close()
	}()

	if err := store.Record(cmd.Context(), history.Entry{
		Question:   question,
		Locale:     reply.Locale,
		Answer:     reply.Text,
		Source:     string(reply.Source),
		Degraded:   reply.Degraded,
		Cached:     reply.Cached,
		DurationMs: elapsed.Milliseconds(),
	}); err != nil {
		color.Red("failed to record the answer: %v", err)
	}
}
