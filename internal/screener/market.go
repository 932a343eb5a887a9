package screener

import (
	"fmt"
	"strings"
)

// marketAliases maps common market names to the provider's canonical slug.
var marketAliases = map[string]string{
	"us":           "america",
	"usa":          "america",
	"unitedstates": "america",
}

// defaultSymbolTypes maps a canonical market slug to the symbol types
// scanned by default. Unknown slugs scan every type the provider offers.
var defaultSymbolTypes = map[string][]string{
	"america": {"stock"},
	"crypto":  {"crypto"},
	"forex":   {"forex"},
}

// NormalizeMarket maps a free-form market name to the provider's
// canonical slug: trimmed, lowercased, internal spaces stripped, known
// aliases resolved. An input that normalizes to nothing is rejected.
func NormalizeMarket(market string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(market))
	slug = strings.ReplaceAll(slug, " ", "")
	if slug == "" {
		return "", fmt.Errorf("%w: empty market name", ErrInvalidInput)
	}

	if canonical, ok := marketAliases[slug]; ok {
		return canonical, nil
	}
	return slug, nil
}

// DefaultSymbolTypes returns the symbol types scanned by default for a
// canonical market slug. Unknown slugs return nil.
func DefaultSymbolTypes(slug string) []string {
	types, ok := defaultSymbolTypes[slug]
	if !ok {
		return nil
	}
	out := make([]string, len(types))
	copy(out, types)
	return out
}
