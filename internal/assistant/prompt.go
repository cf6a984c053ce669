package assistant

import (
	"fmt"
	"strings"
)

// buildPrompt wraps a user question in the fintech system prompt, embedding
// the exchange-rate table so every provider answers from the same facts.
func buildPrompt(question string) string {
	var rates strings.Builder
	for _, country := range Countries() {
		rates.WriteString(fmt.Sprintf("- %s: 1 USD = %s\n", country, latamExchangeRates[country]))
	}

	return fmt.Sprintf(`You are a fintech assistant specialized in Latin American financial systems.

Available exchange rates:
%s
User question: %s

Please provide a helpful response about fintech or financial services in Latin America.`, rates.String(), question)
}
