package translate

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DefaultLocale is the assistant's base language. Detection falls back to it
// for empty or ambiguous input.
const DefaultLocale = "en"

// supported restricts detection to the languages the assistant answers in.
var supported = map[whatlanggo.Lang]bool{
	whatlanggo.Eng: true,
	whatlanggo.Spa: true,
	whatlanggo.Por: true,
}

// Detector guesses the locale of a question without a network round trip.
type Detector struct {
	options whatlanggo.Options
}

func NewDetector() *Detector {
	return &Detector{
		options: whatlanggo.Options{Whitelist: supported},
	}
}

// Detect returns the ISO 639-1 code of the question's language, restricted
// to en/es/pt. Unrecognizable input resolves to the default locale.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return DefaultLocale
	}
	info := whatlanggo.DetectWithOptions(text, d.options)
	code := info.Lang.Iso6391()
	if code == "" {
		return DefaultLocale
	}
	return code
}
