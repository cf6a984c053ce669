// Package assistant implements the Jeeves fintech front-end: language
// detection, translation glue, the exchange-rate shortcut, and the handoff
// to the resilient call orchestrator.
package assistant

import (
	"context"
	"fmt"

	"github.com/jeeves-ai/jeeves/internal/resilience"
	"github.com/jeeves-ai/jeeves/internal/translate"
)

// Source names where an answer came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceCache    Source = "cache"
	SourceRates    Source = "rates"
	SourceFallback Source = "fallback"
)

// Reply is a fully rendered answer in the asker's language.
type Reply struct {
	Text     string
	Locale   string
	Degraded bool
	Cached   bool
	Source   Source
}

type Assistant struct {
	orchestrator *resilience.Orchestrator
	detector     *translate.Detector
	translator   translate.Translator
}

// New builds an assistant. A nil translator disables translation and every
// answer is produced in the question's language as-is.
func New(orchestrator *resilience.Orchestrator, detector *translate.Detector, translator translate.Translator) *Assistant {
	return &Assistant{
		orchestrator: orchestrator,
		detector:     detector,
		translator:   translator,
	}
}

// Answer resolves a question end to end: detect the locale, normalize to
// English, answer locally or through the orchestrator, translate back.
func (a *Assistant) Answer(ctx context.Context, question string) (Reply, error) {
	locale := a.detector.Detect(question)

	english := question
	if a.translator != nil && locale != translate.DefaultLocale {
		translated, err := a.translator.Translate(ctx, question, locale, translate.DefaultLocale)
		if err != nil {
			return Reply{}, fmt.Errorf("translator.Translate question > %w", err)
		}
		english = translated
	}

	if answer, ok := rateShortcut(english); ok {
		localized, err := a.localize(ctx, answer, locale)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: localized, Locale: locale, Source: SourceRates}, nil
	}

	result, err := a.orchestrator.Ask(ctx, buildPrompt(english), locale)
	if err != nil {
		return Reply{}, fmt.Errorf("orchestrator.Ask > %w", err)
	}

	reply := Reply{
		Locale:   locale,
		Degraded: result.Degraded,
		Cached:   result.Cached,
		Source:   SourceProvider,
	}
	if result.Cached {
		reply.Source = SourceCache
	}

	if result.Degraded {
		// Fallback answers are already localized by the orchestrator.
		reply.Text = result.Text
		reply.Source = SourceFallback
		return reply, nil
	}

	localized, err := a.localize(ctx, result.Text, locale)
	if err != nil {
		return Reply{}, err
	}
	reply.Text = localized
	return reply, nil
}

func (a *Assistant) localize(ctx context.Context, text, locale string) (string, error) {
	if a.translator == nil || locale == translate.DefaultLocale {
		return text, nil
	}
	localized, err := a.translator.Translate(ctx, text, translate.DefaultLocale, locale)
	if err != nil {
		return "", fmt.Errorf("translator.Translate answer > %w", err)
	}
	return localized, nil
}
