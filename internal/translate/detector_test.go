package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	detector := NewDetector()

	tests := []struct {
		name string
		text string

		wantLocale string
	}{
		{
			name:       "english question",
			text:       "What is the current exchange rate in Brazil and how does it affect my savings?",
			wantLocale: "en",
		},
		{
			name:       "spanish question",
			text:       "¿Cuál es la tasa de cambio actual en México y cómo afecta mis ahorros?",
			wantLocale: "es",
		},
		{
			name:       "portuguese question",
			text:       "Qual é a taxa de câmbio atual no Brasil e como isso afeta minhas economias?",
			wantLocale: "pt",
		},
		{
			name:       "empty input falls back to the default locale",
			text:       "",
			wantLocale: DefaultLocale,
		},
		{
			name:       "whitespace only falls back to the default locale",
			text:       "   \t\n",
			wantLocale: DefaultLocale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLocale, detector.Detect(tt.text))
		})
	}
}
