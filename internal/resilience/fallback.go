package resilience

import (
	"fmt"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/pt"
	ut "github.com/go-playground/universal-translator"
)

const fallbackKey = "assistant.fallback"

// defaultFallbackTexts are the canned degraded-mode answers. The table is
// static; English doubles as the default when a locale has no entry.
var defaultFallbackTexts = map[string]string{
	"en": "I'm receiving more questions than my provider allows right now, so I can't generate a live answer. I can still share exchange rates for Brazil, Mexico, Argentina, Colombia, Chile, and Peru. Please try again in a moment.",
	"es": "Estoy recibiendo más preguntas de las que mi proveedor permite en este momento, así que no puedo generar una respuesta en vivo. Aún puedo compartir los tipos de cambio de Brasil, México, Argentina, Colombia, Chile y Perú. Inténtalo de nuevo en un momento.",
	"pt": "Estou recebendo mais perguntas do que meu provedor permite no momento, então não posso gerar uma resposta ao vivo. Ainda posso informar as taxas de câmbio do Brasil, México, Argentina, Colômbia, Chile e Peru. Tente novamente em instantes.",
}

// Fallbacks produces a locale-aware canned response once the resilient call
// path is exhausted. Lookup never fails: unknown locales resolve to English.
type Fallbacks struct {
	uni *ut.UniversalTranslator
}

func NewFallbacks() (*Fallbacks, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, es.New(), pt.New())

	for locale, text := range defaultFallbackTexts {
		trans, found := uni.GetTranslator(locale)
		if !found {
			return nil, fmt.Errorf("no translator registered for locale %q", locale)
		}
		if err := trans.Add(fallbackKey, text, true); err != nil {
			return nil, fmt.Errorf("trans.Add(%q) > %w", locale, err)
		}
	}

	return &Fallbacks{uni: uni}, nil
}

// Generate returns the canned answer for a locale. Locales without an entry
// fall back to the default locale's text; the result is never empty.
func (f *Fallbacks) Generate(locale string) string {
	trans, _ := f.uni.GetTranslator(locale)
	text, err := trans.T(fallbackKey)
	if err != nil || text == "" {
		return defaultFallbackTexts["en"]
	}
	return text
}
