package assistant

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// latamExchangeRates is the static USD exchange-rate table the assistant
// serves without consulting a provider.
var latamExchangeRates = map[string]string{
	"Brazil":    "5.2 BRL",
	"Mexico":    "17.1 MXN",
	"Argentina": "900 ARS",
	"Colombia":  "3950 COP",
	"Chile":     "925 CLP",
	"Peru":      "3.7 PEN",
}

// Countries lists the countries with known exchange rates, sorted.
func Countries() []string {
	countries := make([]string, 0, len(latamExchangeRates))
	for country := range latamExchangeRates {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}

// LookupRate returns the exchange-rate sentence for a country, matching
// case-insensitively.
func LookupRate(country string) (string, bool) {
	title := toTitle(country)
	rate, ok := latamExchangeRates[title]
	if !ok {
		return fmt.Sprintf("Sorry, I don't have exchange rate data for %s.", country), false
	}
	return fmt.Sprintf("The current exchange rate in %s is 1 USD = %s.", title, rate), true
}

// rateKeywords are matched as whole words so that "operate" or "corporate"
// never trigger the shortcut.
var rateKeywords = map[string]bool{
	"exchange":   true,
	"rate":       true,
	"rates":      true,
	"currency":   true,
	"currencies": true,
}

// rateShortcut answers an exchange-rate question locally when it names a
// known country together with a rate keyword. The question is expected to
// already be in English.
func rateShortcut(question string) (string, bool) {
	words := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	hasKeyword := false
	for _, word := range words {
		if rateKeywords[word] {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return "", false
	}

	for country := range latamExchangeRates {
		lowered := strings.ToLower(country)
		for _, word := range words {
			if word == lowered {
				answer, _ := LookupRate(country)
				return answer, true
			}
		}
	}
	return "", false
}

func toTitle(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
