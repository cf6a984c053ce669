package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jeeves-ai/jeeves/internal/history"
)

func newHistoryCommand() *cobra.Command {
	var limit int
	command := &cobra.Command{
		Use:   "history",
		Short: "Show recently answered questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.History.DatabaseFile == "" {
				return fmt.Errorf("history is disabled: set history.database_file in the config")
			}

			store, err := history.Open(cfg.History.DatabaseFile)
			if err != nil {
				return fmt.Errorf("history.Open > %w", err)
			}
			defer func() {
				_ = store.Close()
			}()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("store.Recent > %w", err)
			}
			if len(entries) == 0 {
				fmt.Println("No questions recorded yet.")
				return nil
			}

			for _, entry := range entries {
				fmt.Printf("[%s] (%s, %s) %s\n",
					entry.CreatedAt.Format("2006-01-02 15:04:05"),
					entry.Locale,
					entry.Source,
					entry.Question,
				)
				if entry.Degraded {
					color.Yellow("  %s", entry.Answer)
				} else {
					fmt.Printf("  %s\n", entry.Answer)
				}
			}
			return nil
		},
	}
	command.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show")

	return command
}
