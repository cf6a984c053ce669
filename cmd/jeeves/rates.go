package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeeves-ai/jeeves/internal/assistant"
)

func newRatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rates [country]",
		Short: "Show the known USD exchange rates for Latin American countries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				sentence, found := assistant.LookupRate(args[0])
				fmt.Println(sentence)
				if !found {
					return fmt.Errorf("no exchange rate data for %q", args[0])
				}
				return nil
			}

			for _, country := range assistant.Countries() {
				sentence, _ := assistant.LookupRate(country)
				fmt.Println(sentence)
			}
			return nil
		},
	}
}
