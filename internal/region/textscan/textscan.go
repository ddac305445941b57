// Package textscan extracts candidate countries from free text. It is pure:
// no network, no storage, deterministic for a given input.
//
// Three independent pattern families all run and their hits are unioned:
// city-name containment, event/battle regexes, and civilization terms.
package textscan

import (
	"strings"

	"eramap/internal/region/models"
)

// Extract returns the normalized union of all pattern hits. An empty result
// means the text carried no recognizable geographic hints.
func Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var hits []string
	for city, codes := range cityCountries {
		if strings.Contains(lower, city) {
			hits = append(hits, codes...)
		}
	}
	for _, rule := range eventPatterns {
		if rule.re.MatchString(text) {
			hits = append(hits, rule.countries...)
		}
	}
	for _, rule := range civilizationPatterns {
		if rule.re.MatchString(text) {
			hits = append(hits, rule.countries...)
		}
	}

	return models.NormalizeSet(hits)
}

// Escalate applies the caller-side confidence policy for text-derived
// results: tight country sets over short spans are trustworthy, sprawling
// matches over long spans are not.
func Escalate(countryCount, yearSpan int) models.Confidence {
	switch {
	case countryCount <= 5 && yearSpan <= 50:
		return models.ConfidenceHigh
	case yearSpan < 100:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
