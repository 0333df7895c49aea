package mapscan

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// cityRule attempts to derive a city name from free-text address content.
// It reports whether it produced a usable value.
type cityRule func(address string) (string, bool)

// cityRules are tried in order, first match wins. The ordering reflects
// reliability: a postal-code-anchored match is most trustworthy, a known
// major-city name is next, and the structural last-segment heuristic is the
// weakest fallback.
var cityRules = []cityRule{
	cityAfterPostalCode,
	cityFromKnownNames,
	cityFromLastSegment,
}

// knownCities is the reference list of major French cities checked by the
// known-name rule, in match priority order.
var knownCities = []string{
	"Paris", "Lyon", "Marseille", "Toulouse", "Nice", "Nantes",
	"Strasbourg", "Montpellier", "Bordeaux", "Lille", "Rennes", "Reims",
	"Le Havre", "Saint-Étienne", "Toulon", "Grenoble", "Dijon", "Angers",
	"Nîmes", "Villeurbanne",
}

var (
	// A 5-digit postal code followed by a capitalized word run,
	// e.g. "75002 Paris" or "35000 Rennes".
	postalCityRe = regexp.MustCompile(`\b\d{5}\s+([A-ZÀ-Ÿ][A-Za-zÀ-ÿ\s\-']+)`)

	// Residual punctuation stripped from a postal-code capture.
	cityNoiseRe = regexp.MustCompile(`[^\w\s\-'À-ÿ]`)

	// A standalone 5-digit token inside an address segment.
	postalTokenRe = regexp.MustCompile(`\b\d{5}\b`)
)

// InferCity derives a city name from a free-text address fragment. It
// returns Unspecified when no rule produces a usable value.
func InferCity(address string) string {
	for _, rule := range cityRules {
		if city, ok := rule(address); ok {
			return city
		}
	}
	return Unspecified
}

func cityAfterPostalCode(address string) (string, bool) {
	m := postalCityRe.FindStringSubmatch(address)
	if m == nil {
		return "", false
	}
	city := strings.TrimSpace(m[1])
	city = strings.TrimSpace(cityNoiseRe.ReplaceAllString(city, ""))
	if city == "" {
		return "", false
	}
	return city, true
}

func cityFromKnownNames(address string) (string, bool) {
	lower := strings.ToLower(address)
	for _, city := range knownCities {
		if strings.Contains(lower, strings.ToLower(city)) {
			return city, true
		}
	}
	return "", false
}

func cityFromLastSegment(address string) (string, bool) {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return "", false
	}
	last := strings.TrimSpace(parts[len(parts)-1])
	last = strings.TrimSpace(postalTokenRe.ReplaceAllString(last, ""))
	if utf8.RuneCountInString(last) <= 2 {
		return "", false
	}
	return last, true
}
